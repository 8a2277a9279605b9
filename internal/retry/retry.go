// Package retry implements bounded, fixed-interval polling.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrGaveUp is returned once every attempt has been used without success.
var ErrGaveUp = errors.New("retry: gave up")

// Policy bounds a retry loop.
type Policy struct {
	Attempts int
	Interval time.Duration
}

// Policies shared with the client scripts that wait on third-party globals.
var (
	Remote         = Policy{Attempts: 3, Interval: 250 * time.Millisecond}
	MapSDK         = Policy{Attempts: 20, Interval: 100 * time.Millisecond}
	FullscreenMenu = Policy{Attempts: 10, Interval: 200 * time.Millisecond}
	Gallery        = Policy{Attempts: 30, Interval: 100 * time.Millisecond}
)

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. Do returns it unwrapped.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

// Do calls fn until it reports done, returns a permanent error, the context ends,
// or the attempts are exhausted.
func Do(ctx context.Context, p Policy, fn func(attempt int) (bool, error)) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	var last error
	for i := 0; i < attempts; i++ {
		done, err := fn(i)
		if done {
			return nil
		}
		var perm permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		last = err
		if i == attempts-1 {
			break
		}
		timer := time.NewTimer(p.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	if last != nil {
		return fmt.Errorf("%w after %d attempts: %v", ErrGaveUp, attempts, last)
	}
	return ErrGaveUp
}
