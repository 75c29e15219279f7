package broker

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyInitialized = errors.New("already initialized")
	ErrNotReady           = errors.New("not ready")
	ErrInitFailed         = errors.New("init failed")
)

// InitError reports a driver that could not be constructed.
type InitError struct {
	Subsystem string
	Reason    string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("%s init failed: %s", e.Subsystem, e.Reason)
}

func (e *InitError) Is(target error) bool { return target == ErrInitFailed }

func (e *InitError) Unwrap() error { return e.Err }

func initFailed(subsystem string, err error) error {
	var ie *InitError
	if errors.As(err, &ie) {
		return err
	}
	return &InitError{Subsystem: subsystem, Reason: err.Error(), Err: err}
}
