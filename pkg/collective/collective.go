// Package collective provides the two blocking collective operations the
// round loop is built on: a root-to-all broadcast of the round's control
// value and an all-to-root sum reduction of partial results. Both act as full
// barriers: no rank leaves the call until every rank of the group has entered
// it and the value has propagated.
package collective

import (
	"context"
	"errors"
)

var (
	ErrInvalidRoot = errors.New("collective: root is not a rank in the group")
	ErrClosed      = errors.New("collective: communicator closed")
)

// Comm is the communication handle of one rank within a group. Every rank of
// the group must enter the same sequence of collective calls with the same
// root; a rank that skips a call deadlocks the whole group. There are no
// retries: a failed collective leaves the group unrecoverable and the error
// should unwind the run.
type Comm interface {
	// Broadcast distributes root's value to every rank. The value argument of
	// non-root callers is ignored; every caller returns root's value.
	Broadcast(ctx context.Context, value int, root int) (int, error)

	// Reduce combines every rank's partial into their sum, delivered to root.
	// On every other rank the returned value is meaningless and must not be
	// used.
	Reduce(ctx context.Context, partial float64, root int) (float64, error)

	// Close releases the communicator. Ranks still blocked in a collective
	// observe ErrClosed.
	Close() error
}
