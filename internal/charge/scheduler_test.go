package charge

import (
	"context"
	"testing"
	"time"
)

func testTiming() Timing {
	t := DefaultTiming()
	t.Reassert = 5 * time.Millisecond
	t.Idle = 10 * time.Millisecond
	return t
}

func TestSchedulerIdleWhileNotCharging(t *testing.T) {
	rig := newTestRig(t, fixedGreen(), 1, 1)
	rig.det.Baseline() // not charging, one OFF write
	writesAfterBaseline := rig.r.Writes() + rig.g.Writes() + rig.b.Writes()

	s := NewScheduler(rig.ind, testTiming())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	// Several idle cycles worth of time.
	time.Sleep(60 * time.Millisecond)
	cancel()
	<-done

	if got := rig.r.Writes() + rig.g.Writes() + rig.b.Writes(); got != writesAfterBaseline {
		t.Errorf("scheduler wrote lines while not charging: %d -> %d writes", writesAfterBaseline, got)
	}
	if s.Reassertions() != 0 {
		t.Errorf("expected zero reassertions while idle, got %d", s.Reassertions())
	}
	if s.IdleTicks() == 0 {
		t.Error("expected idle ticks to be counted")
	}
}

func TestSchedulerReassertsWhileCharging(t *testing.T) {
	rig := newTestRig(t, fixedGreen(), 0, 0)
	rig.det.Baseline() // charging

	s := NewScheduler(rig.ind, testTiming())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(60 * time.Millisecond)
	cancel()
	<-done

	if s.Reassertions() < 3 {
		t.Errorf("expected several reassertions over 60ms at 5ms cadence, got %d", s.Reassertions())
	}
	if rig.lines() != [3]int{0, 1, 0} {
		t.Errorf("expected GREEN held, got %v", rig.lines())
	}
	// Every reassertion rewrites all three channels.
	if rig.g.Writes() < int(s.Reassertions()) {
		t.Errorf("expected at least %d green writes, got %d", s.Reassertions(), rig.g.Writes())
	}
}

func TestSchedulerStopsWritingAfterChargeStops(t *testing.T) {
	rig := newTestRig(t, fixedGreen(), 0, 0, 1)
	rig.det.Baseline() // charging

	s := NewScheduler(rig.ind, testTiming())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)

	// Transition back to not charging: the edge handler makes the one
	// final OFF write, then the scheduler must only sleep.
	rig.det.HandleEdge()
	if rig.lines() != [3]int{0, 0, 0} {
		t.Errorf("expected OFF after transition, got %v", rig.lines())
	}

	// Allow any in-flight reassertion to finish, then measure.
	time.Sleep(20 * time.Millisecond)
	writes := rig.r.Writes() + rig.g.Writes() + rig.b.Writes()
	time.Sleep(40 * time.Millisecond)
	if got := rig.r.Writes() + rig.g.Writes() + rig.b.Writes(); got != writes {
		t.Errorf("scheduler kept writing after charging stopped: %d -> %d", writes, got)
	}
	if rig.lines() != [3]int{0, 0, 0} {
		t.Errorf("lines should stay OFF, got %v", rig.lines())
	}

	cancel()
	<-done
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	rig := newTestRig(t, fixedGreen(), 1)
	s := NewScheduler(rig.ind, testTiming())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop on cancel")
	}
}
