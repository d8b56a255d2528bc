package level

import (
	"errors"
	"fmt"
)

// Guard violations. These are programmer errors: they fail fast at the call
// boundary and are never retried.
var (
	ErrAlreadyLoading     = errors.New("level: a load is already in progress")
	ErrAlreadyLoaded      = errors.New("level: a level is already loaded")
	ErrUnloadWithoutLoad  = errors.New("level: no level to unload")
	ErrUnloadWhileLoading = errors.New("level: cannot unload while a load is active")
	ErrAlreadyRunning     = errors.New("level: scheduler already has an active run")
)

// StageError is a fatal failure raised inside a staged-procedure step. It is
// not retried; the failing run terminates and the error surfaces through the
// controller's failure handler. Gen identifies the run the trace belongs to,
// so a stale trace is never attributed to a later run.
type StageError struct {
	Proc  string
	Step  string
	Gen   uint64
	Stack []byte
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("level: %s run %d failed at step %q: %v", e.Proc, e.Gen, e.Step, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
