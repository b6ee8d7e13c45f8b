// Package testutil provides polling helpers and a fake deployment target for tests.
package testutil

import (
	"errors"
	"testing"
	"time"
)

// WaitOptions configures WaitFor behavior.
type WaitOptions struct {
	Timeout  time.Duration
	Interval time.Duration
}

// WaitOption is a functional option for WaitFor.
type WaitOption func(*WaitOptions)

// WithTimeout sets the maximum wait time (default: 30s).
func WithTimeout(d time.Duration) WaitOption {
	return func(o *WaitOptions) {
		o.Timeout = d
	}
}

// WithInterval sets the polling interval (default: 100ms).
func WithInterval(d time.Duration) WaitOption {
	return func(o *WaitOptions) {
		o.Interval = d
	}
}

func defaultOptions() WaitOptions {
	return WaitOptions{
		Timeout:  30 * time.Second,
		Interval: 100 * time.Millisecond,
	}
}

// WaitFor polls until condition returns true or timeout is reached.
// Returns true if condition was met, false on timeout.
func WaitFor(tb testing.TB, condition func() bool, opts ...WaitOption) bool {
	tb.Helper()

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	deadline := time.Now().Add(o.Timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(o.Interval)
	}
	return false
}

// WaitForNoError polls until check returns nil or timeout is reached.
// Returns the last error seen, nil if check succeeded.
func WaitForNoError(tb testing.TB, check func() error, opts ...WaitOption) error {
	tb.Helper()
	var lastErr error
	if WaitFor(tb, func() bool {
		lastErr = check()
		return lastErr == nil
	}, opts...) {
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("check never ran")
	}
	return lastErr
}

// MustWaitFor polls until condition returns true or fails the test on timeout.
func MustWaitFor(tb testing.TB, condition func() bool, opts ...WaitOption) {
	tb.Helper()
	if !WaitFor(tb, condition, opts...) {
		tb.Fatal("timed out waiting for condition")
	}
}

// MustWaitForNoError polls until check returns nil or fails the test with
// the last error on timeout.
func MustWaitForNoError(tb testing.TB, check func() error, opts ...WaitOption) {
	tb.Helper()
	if err := WaitForNoError(tb, check, opts...); err != nil {
		tb.Fatalf("timed out waiting for check: %v", err)
	}
}
