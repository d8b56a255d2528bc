package level

import (
	"fmt"
	"runtime/debug"
)

// stepResult tells the scheduler what to do after a step runs.
type stepResult int

const (
	// stepDone advances to the next step on the next tick.
	stepDone stepResult = iota
	// stepAgain reruns the same step on the next tick (wait states).
	stepAgain
)

// step is one suspension point of a staged procedure. Between steps the
// procedure is suspended; within a step it runs to completion without
// interruption.
type step struct {
	name string
	run  func() (stepResult, error)
}

type run struct {
	name  string
	steps []step
	pc    int
	gen   uint64
}

// Scheduler drives a staged procedure forward one step per scheduling tick.
// A run, once started, proceeds to natural completion or fatal failure; there
// is no cancellation mid-run short of a forced reset.
type Scheduler struct {
	active *run
	gen    uint64
	onErr  func(*StageError)
}

// NewScheduler creates a scheduler. onErr receives fatal step failures.
func NewScheduler(onErr func(*StageError)) *Scheduler {
	return &Scheduler{onErr: onErr}
}

// Start begins a new run. It fails with ErrAlreadyRunning while another run
// is active (single-flight).
func (s *Scheduler) Start(name string, steps []step) error {
	if s == nil {
		return fmt.Errorf("level: nil scheduler")
	}
	if s.active != nil {
		return ErrAlreadyRunning
	}
	if len(steps) == 0 {
		return nil
	}
	s.gen++
	s.active = &run{name: name, steps: steps, gen: s.gen}
	return nil
}

// Running reports whether a run is active.
func (s *Scheduler) Running() bool {
	return s != nil && s.active != nil
}

// Tick resumes the active run by exactly one step. On completion or failure
// the scheduler clears its run handle; a failure is reported through onErr
// with a trace tied to the failing run's generation. A step may force a reset
// and start a replacement run; the old run's bookkeeping must not touch it.
func (s *Scheduler) Tick() {
	if s == nil || s.active == nil {
		return
	}
	r := s.active
	res, serr := s.resume(r)
	if serr != nil {
		if s.active == r {
			s.active = nil
		}
		if s.onErr != nil {
			s.onErr(serr)
		}
		return
	}
	if s.active != r {
		return
	}
	if res == stepDone {
		r.pc++
	}
	if r.pc >= len(r.steps) {
		s.active = nil
	}
}

// reset abandons the active run, if any. Used only by the forced external
// reset path.
func (s *Scheduler) reset() {
	if s != nil {
		s.active = nil
	}
}

func (s *Scheduler) resume(r *run) (res stepResult, serr *StageError) {
	st := r.steps[r.pc]
	defer func() {
		if p := recover(); p != nil {
			serr = &StageError{
				Proc:  r.name,
				Step:  st.name,
				Gen:   r.gen,
				Stack: debug.Stack(),
				Err:   fmt.Errorf("panic: %v", p),
			}
		}
	}()
	res, err := st.run()
	if err != nil {
		return 0, &StageError{
			Proc:  r.name,
			Step:  st.name,
			Gen:   r.gen,
			Stack: debug.Stack(),
			Err:   err,
		}
	}
	return res, nil
}
