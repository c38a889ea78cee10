package oracle

import (
	"errors"
	"fmt"
)

// ErrUnavailable indicates the backend is down, unreachable, or timed out.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("oracle unavailable: %v", e.Err)
	}
	return "oracle unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrRateLimit indicates the backend answered 429.
type ErrRateLimit struct {
	Err error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("oracle rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrEmptyCompletion is returned when the backend produced no text.
var ErrEmptyCompletion = errors.New("oracle returned an empty completion")
