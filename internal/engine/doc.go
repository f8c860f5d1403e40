// Package engine implements the Goalixa temporal accounting and
// recurrence engine.
//
// The engine is the heart of Goalixa - it turns raw time intervals,
// habit logs and reminder rules into per-bucket durations, streaks and
// next-occurrence instants. Everything else in the application is row
// plumbing around it.
//
// ARCHITECTURE:
//
// Pure Computation:
// Every function is a pure computation over its arguments. The engine
// performs no I/O, holds no state between calls, and never reads the
// wall clock. This ensures:
// - Deterministic results (same inputs, same outputs, any call order)
// - Trivial testability (no fakes, no fixtures, no database)
// - Safe concurrent use without synchronization
//
// Data Flow:
// 1. Callers (store/CLI layer) fetch intervals, habit logs and reminder
//    rows already scoped to a user and window
// 2. Callers read "now" exactly once per request
// 3. Engine functions compute aggregates from those plain values
// 4. The only write-shaped output is a list of proposed interval end
//    times from Reconcile; persisting them is the caller's job
//
// CRITICAL PATTERNS:
//
// Single Now Per Pass:
// "Now" is an explicit parameter threaded through every call. Within
// one accumulation or reconciliation pass the same instant is applied
// to every open interval, so two intervals evaluated together are never
// compared against different clock readings.
//
// Degrade, Never Abort:
// Invalid inputs degrade to safe values - an unknown timezone resolves
// to UTC, an interval whose clipped end precedes its start contributes
// zero, an unsatisfiable recurrence reports unscheduled. The engine
// feeds dashboards where partial results beat hard failures.
package engine
