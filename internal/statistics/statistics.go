// Package statistics aggregates simulated round results into the summary the
// simulator reports.
package statistics

import "math"

// RoundResult is the outcome of one simulated blackjack round.
type RoundResult struct {
	Net        int  // net profit across all hands plus insurance
	Wins       int  // hands won this round
	Losses     int  // hands lost this round
	Pushes     int  // hands pushed this round
	Blackjacks int  // naturals this round
	Surrender  bool // round ended by surrender
}

// Session tracks statistics across many simulated rounds.
type Session struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64 // sum of squares for variance

	Wins       int
	Losses     int
	Pushes     int
	Blackjacks int
	Surrenders int

	MaxNet int
	MinNet int
}

// Add incorporates a round result.
func (s *Session) Add(r RoundResult) {
	net := float64(r.Net)
	s.Rounds++
	s.SumNet += net
	s.SumNet2 += net * net

	s.Wins += r.Wins
	s.Losses += r.Losses
	s.Pushes += r.Pushes
	s.Blackjacks += r.Blackjacks
	if r.Surrender {
		s.Surrenders++
	}

	if r.Net > s.MaxNet {
		s.MaxNet = r.Net
	}
	if r.Net < s.MinNet {
		s.MinNet = r.Net
	}
}

// Merge folds another session into this one. Workers aggregate locally and
// merge at the end.
func (s *Session) Merge(other *Session) {
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Pushes += other.Pushes
	s.Blackjacks += other.Blackjacks
	s.Surrenders += other.Surrenders
	if other.MaxNet > s.MaxNet {
		s.MaxNet = other.MaxNet
	}
	if other.MinNet < s.MinNet {
		s.MinNet = other.MinNet
	}
}

// Mean returns the mean net per round.
func (s *Session) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of net per round.
func (s *Session) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation.
func (s *Session) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean.
func (s *Session) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean net.
func (s *Session) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// HandsSettled returns the total number of settled hands, which exceeds
// Rounds when splits occurred.
func (s *Session) HandsSettled() int {
	return s.Wins + s.Losses + s.Pushes
}

// WinRate returns the fraction of settled hands that won.
func (s *Session) WinRate() float64 {
	settled := s.HandsSettled()
	if settled == 0 {
		return 0
	}
	return float64(s.Wins) / float64(settled)
}
