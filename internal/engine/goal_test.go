package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	p := Progress(1800, 3600)
	assert.Equal(t, int64(1800), p.TotalSeconds)
	assert.Equal(t, int64(3600), p.TargetSeconds)
	assert.InDelta(t, 50.0, p.Percent, 1e-9)
}

func TestProgress_CapsAtHundred(t *testing.T) {
	assert.Equal(t, 100.0, Progress(7200, 3600).Percent)
}

func TestProgress_ZeroTarget(t *testing.T) {
	assert.Equal(t, 0.0, Progress(3600, 0).Percent)
	assert.Equal(t, 0.0, Progress(3600, -1).Percent)
}
