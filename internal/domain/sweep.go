package domain

import "time"

// SweepStats holds statistics about one due-post sweep.
type SweepStats struct {
	Due       int
	Published int
	Failed    int
	Duration  time.Duration
}
