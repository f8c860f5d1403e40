package engine

// GoalProgress is the derived progress of a goal against its time
// target. It is computed per request, never stored.
type GoalProgress struct {
	TotalSeconds  int64   `json:"total_seconds"`
	TargetSeconds int64   `json:"target_seconds"`
	Percent       float64 `json:"percent"`
}

// Progress computes goal completion. Percent caps at 100; a goal with
// no target (zero or negative) reads as 0% rather than dividing by
// zero.
func Progress(totalSeconds, targetSeconds int64) GoalProgress {
	p := GoalProgress{TotalSeconds: totalSeconds, TargetSeconds: targetSeconds}
	if targetSeconds > 0 {
		p.Percent = float64(totalSeconds) / float64(targetSeconds) * 100
		if p.Percent > 100 {
			p.Percent = 100
		}
	}
	return p
}
