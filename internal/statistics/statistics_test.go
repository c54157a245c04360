package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionAdd(t *testing.T) {
	var s Session
	s.Add(RoundResult{Net: 10, Wins: 1})
	s.Add(RoundResult{Net: -10, Losses: 1})
	s.Add(RoundResult{Net: 0, Pushes: 1})
	s.Add(RoundResult{Net: 15, Wins: 1, Blackjacks: 1})
	s.Add(RoundResult{Net: -5, Losses: 1, Surrender: true})

	assert.Equal(t, 5, s.Rounds)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 2, s.Losses)
	assert.Equal(t, 1, s.Pushes)
	assert.Equal(t, 1, s.Blackjacks)
	assert.Equal(t, 1, s.Surrenders)
	assert.Equal(t, 15, s.MaxNet)
	assert.Equal(t, -10, s.MinNet)
	assert.Equal(t, 5, s.HandsSettled())
	assert.InDelta(t, 2.0, s.Mean(), 1e-9)
	assert.InDelta(t, 0.4, s.WinRate(), 1e-9)
}

func TestSessionVariance(t *testing.T) {
	var s Session
	for _, net := range []int{10, -10, 10, -10} {
		s.Add(RoundResult{Net: net})
	}

	// Mean 0, sample variance 400/3.
	assert.InDelta(t, 0.0, s.Mean(), 1e-9)
	assert.InDelta(t, 400.0/3.0, s.Variance(), 1e-9)

	lo, hi := s.ConfidenceInterval95()
	assert.Less(t, lo, 0.0)
	assert.Greater(t, hi, 0.0)
	assert.InDelta(t, -(hi - s.Mean()), lo-s.Mean(), 1e-9, "interval is symmetric")
}

func TestSessionMerge(t *testing.T) {
	var a, b Session
	a.Add(RoundResult{Net: 10, Wins: 1})
	a.Add(RoundResult{Net: -20, Losses: 1})
	b.Add(RoundResult{Net: 30, Wins: 1, Blackjacks: 1})
	b.Add(RoundResult{Net: -5, Losses: 1, Surrender: true})

	var whole Session
	for _, net := range []RoundResult{
		{Net: 10, Wins: 1},
		{Net: -20, Losses: 1},
		{Net: 30, Wins: 1, Blackjacks: 1},
		{Net: -5, Losses: 1, Surrender: true},
	} {
		whole.Add(net)
	}

	a.Merge(&b)
	assert.Equal(t, whole, a, "merging equals adding everything to one session")
}

func TestEmptySessionIsSafe(t *testing.T) {
	var s Session
	assert.Zero(t, s.Mean())
	assert.Zero(t, s.Variance())
	assert.Zero(t, s.StdError())
	assert.Zero(t, s.WinRate())
}
