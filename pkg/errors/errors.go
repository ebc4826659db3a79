package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrIO              = errors.New("document io error")
	ErrInvalidEncoding = errors.New("document is not valid utf-8")
	ErrWorkerFailed    = errors.New("indexing worker failed")
	ErrSinkUnavailable = errors.New("report sink unavailable")
)

// IOError reports that a document could not be loaded. No workers are
// started when it is returned.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrIO.Error(), e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// WorkerError identifies the worker (1-based ordinal) that terminated
// abnormally during tokenization or merge.
type WorkerError struct {
	Worker int
	Err    error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("%s: worker %d: %v", ErrWorkerFailed.Error(), e.Worker, e.Err)
}

func (e *WorkerError) Unwrap() error {
	return e.Err
}

func (e *WorkerError) Is(target error) bool {
	return target == ErrWorkerFailed
}

func NewIOError(path string, err error) *IOError {
	return &IOError{Path: path, Err: err}
}

func NewWorkerError(worker int, err error) *WorkerError {
	return &WorkerError{Worker: worker, Err: err}
}

// Invalidf wraps ErrInvalidInput with a formatted message.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Process exit codes used by the indexer CLI.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInvalidArgs = 2
	ExitIO          = 3
	ExitWorker      = 4
)

func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrInvalidInput):
		return ExitInvalidArgs
	case errors.Is(err, ErrIO):
		return ExitIO
	case errors.Is(err, ErrWorkerFailed):
		return ExitWorker
	default:
		return ExitFailure
	}
}

// As and Is re-export the standard helpers so callers need a single import.
func As(err error, target any) bool {
	return errors.As(err, target)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}
