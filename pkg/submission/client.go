package submission

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-needle-survey/pkg/model"
)

// ErrTransport matches every failure to dispatch a response. Callers are not
// expected to distinguish causes.
var ErrTransport = errors.New("submission: transport failure")

// Client forwards a completed survey response. A nil error only means the
// request left the process without a local failure; it does not confirm the
// remote side stored anything.
type Client interface {
	Submit(ctx context.Context, response model.SurveyResponse) error
}

// ClientFunc adapts a function into a Client.
type ClientFunc func(ctx context.Context, response model.SurveyResponse) error

// Submit calls fn.
func (fn ClientFunc) Submit(ctx context.Context, response model.SurveyResponse) error {
	return fn(ctx, response)
}

// TransportError wraps the underlying cause of a failed dispatch.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("submission: %s failed", e.Op)
	}
	return fmt.Sprintf("submission: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is reports ErrTransport as a match so callers can use errors.Is.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

func transportError(op string, err error) error {
	return &TransportError{Op: op, Err: err}
}
