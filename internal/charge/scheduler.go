package charge

import (
	"context"
	"sync/atomic"
	"time"
)

// Scheduler is the suppression loop. While charging it reapplies the color
// every Reassert interval so a competing LED owner's writes are overpowered.
// While not charging it only sleeps: zero output and zero timing
// interference with the competing component.
//
// There is no mutual-exclusion protocol with the competing writer; the
// cadence is the sole mitigation and is a trade-off between suppression
// strength and wake frequency.
type Scheduler struct {
	ind       *Indicator
	timing    Timing
	reasserts atomic.Uint64
	idleTicks atomic.Uint64
}

// NewScheduler creates a Scheduler over the given indicator.
func NewScheduler(ind *Indicator, timing Timing) *Scheduler {
	return &Scheduler{ind: ind, timing: timing}
}

// Run executes the loop until ctx is cancelled. In the daemon it runs for
// the process lifetime; the context exists so tests can stop it.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		var wait time.Duration
		if s.ind.Charging() {
			s.ind.Reapply()
			s.reasserts.Add(1)
			wait = s.timing.Reassert
		} else {
			s.idleTicks.Add(1)
			wait = s.timing.Idle
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// Reassertions returns how many suppression writes have been performed.
func (s *Scheduler) Reassertions() uint64 {
	return s.reasserts.Load()
}

// IdleTicks returns how many idle sleeps have completed or begun.
func (s *Scheduler) IdleTicks() uint64 {
	return s.idleTicks.Load()
}
