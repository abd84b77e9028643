// Package poll drives status checks for asynchronous vendor jobs.
//
// The stop policy is an explicit state machine rather than inline loop
// logic: Transition maps the vendor's last reported status string to a
// state, and Poller.Wait repeats a check at a fixed interval until the
// state is terminal or the attempt budget runs out.
package poll

import (
	"context"
	"strings"
	"time"
)

// State is the polling lifecycle state of an asynchronous job.
type State int

const (
	// StatePending means the vendor has accepted the job but not started it.
	StatePending State = iota
	// StateProcessing means the vendor is working on the job.
	StateProcessing
	// StateCompleted is terminal success.
	StateCompleted
	// StateFailed is terminal vendor-reported failure.
	StateFailed
	// StateTimedOut is terminal: the attempt budget ran out first.
	StateTimedOut
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateProcessing:
		return "processing"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateTimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// Terminal reports whether polling should stop in this state.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateTimedOut
}

// Transition maps a vendor status string onto the next state. Unknown
// statuses keep the current state, so a vendor adding an intermediate
// status does not abort the loop.
func Transition(current State, vendorStatus string) State {
	switch strings.ToLower(strings.TrimSpace(vendorStatus)) {
	case "pending", "queued", "waiting":
		return StatePending
	case "processing", "running", "in_progress", "generating":
		return StateProcessing
	case "completed", "success", "succeeded", "done":
		return StateCompleted
	case "failed", "error", "canceled", "cancelled":
		return StateFailed
	default:
		return current
	}
}

// CheckFunc performs one status check and returns the vendor's status
// string. An error aborts polling immediately.
type CheckFunc func(ctx context.Context) (string, error)

// Poller repeats a status check at a fixed interval.
type Poller struct {
	// Interval is the sleep between checks.
	Interval time.Duration

	// MaxAttempts bounds the number of checks before StateTimedOut.
	MaxAttempts int
}

// Wait runs check until a terminal state or attempt exhaustion, and
// returns the final state. Context cancellation between attempts aborts
// with the context error.
func (p Poller) Wait(ctx context.Context, check CheckFunc) (State, error) {
	state := StatePending

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		status, err := check(ctx)
		if err != nil {
			return state, err
		}

		state = Transition(state, status)
		if state.Terminal() {
			return state, nil
		}
		if attempt == p.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return state, ctx.Err()
		case <-time.After(p.Interval):
		}
	}
	return StateTimedOut, nil
}
