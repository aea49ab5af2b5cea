// Package runner implements the fixed-timer stack supervisor: bring the
// stack up, hold it for a configured duration, tear it down. It is not
// health-checked; a service exiting early does not shorten the hold.
package runner

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Lifecycle is what the runner supervises. *Stack satisfies it.
type Lifecycle interface {
	Up(ctx context.Context) error
	Down(ctx context.Context) error
}

// Runner brings a stack up, waits, and brings it down again.
type Runner struct {
	Stack Lifecycle
	Hold  time.Duration

	// after is swappable so tests don't sleep for real.
	after func(time.Duration) <-chan time.Time
}

func New(stack Lifecycle, hold time.Duration) *Runner {
	return &Runner{Stack: stack, Hold: hold, after: time.After}
}

// Run executes one lifecycle: up, hold, down. If startup fails, whatever
// already started is torn down before returning. Cancelling ctx during
// the hold (e.g., on SIGINT) ends the hold early and still tears down.
func (r *Runner) Run(ctx context.Context) error {
	log := logrus.WithField("hold", r.Hold.String())

	if err := r.Stack.Up(ctx); err != nil {
		// Partial stacks leak containers, so clean up even on failed start.
		if derr := r.Stack.Down(context.WithoutCancel(ctx)); derr != nil {
			log.WithError(derr).Error("teardown after failed start")
		}
		return err
	}

	log.Info("stack is up, holding")

	select {
	case <-r.after(r.Hold):
		log.Info("hold elapsed, tearing down")
	case <-ctx.Done():
		log.Info("interrupted, tearing down")
	}

	// Teardown must run even when ctx was cancelled.
	return r.Stack.Down(context.WithoutCancel(ctx))
}
