package collective

import (
	"context"
	"fmt"
	"sync"

	"github.com/qcserestipy/gompi/pkg/group"
)

// hub is the shared state of one in-process group. All channels are
// unbuffered so that every phase of a collective is a rendezvous with the
// root, which is what gives the calls their barrier behavior.
type hub struct {
	size   int
	values []chan int      // root → rank: broadcast delivery
	acks   chan struct{}   // rank → root: broadcast arrival
	parts  chan float64    // rank → root: reduce contributions
	done   []chan struct{} // root → rank: end-of-collective release

	closeOnce sync.Once
	closed    chan struct{}
}

// ChannelComm is the in-process communicator for a group of goroutines
// sharing one address space. One ChannelComm belongs to exactly one rank;
// NewChannelGroup hands out the full set over a common hub.
type ChannelComm struct {
	g group.Group
	h *hub
}

var _ Comm = (*ChannelComm)(nil)

// NewChannelGroup creates the communicators of an in-process group of the
// given size, indexed by rank.
func NewChannelGroup(size int) ([]*ChannelComm, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", group.ErrInvalidSize, size)
	}
	h := &hub{
		size:   size,
		values: make([]chan int, size),
		acks:   make(chan struct{}),
		parts:  make(chan float64),
		done:   make([]chan struct{}, size),
		closed: make(chan struct{}),
	}
	for r := 0; r < size; r++ {
		h.values[r] = make(chan int)
		h.done[r] = make(chan struct{})
	}
	comms := make([]*ChannelComm, size)
	for r := 0; r < size; r++ {
		g, err := group.New(r, size)
		if err != nil {
			return nil, err
		}
		comms[r] = &ChannelComm{g: g, h: h}
	}
	return comms, nil
}

func (c *ChannelComm) Broadcast(ctx context.Context, value int, root int) (int, error) {
	if root < 0 || root >= c.g.Size {
		return 0, fmt.Errorf("%w: root %d with size %d", ErrInvalidRoot, root, c.g.Size)
	}
	if c.g.Rank == root {
		for r := 0; r < c.g.Size; r++ {
			if r == root {
				continue
			}
			if err := send(ctx, c.h.closed, c.h.values[r], value); err != nil {
				return 0, fmt.Errorf("collective: broadcast to rank %d: %w", r, err)
			}
		}
		if err := c.gather(ctx); err != nil {
			return 0, fmt.Errorf("collective: broadcast: %w", err)
		}
		if err := c.release(ctx, root); err != nil {
			return 0, fmt.Errorf("collective: broadcast: %w", err)
		}
		return value, nil
	}

	v, err := recv(ctx, c.h.closed, c.h.values[c.g.Rank])
	if err != nil {
		return 0, fmt.Errorf("collective: broadcast receive: %w", err)
	}
	if err := send(ctx, c.h.closed, c.h.acks, struct{}{}); err != nil {
		return 0, fmt.Errorf("collective: broadcast ack: %w", err)
	}
	if _, err := recv(ctx, c.h.closed, c.h.done[c.g.Rank]); err != nil {
		return 0, fmt.Errorf("collective: broadcast release: %w", err)
	}
	return v, nil
}

func (c *ChannelComm) Reduce(ctx context.Context, partial float64, root int) (float64, error) {
	if root < 0 || root >= c.g.Size {
		return 0, fmt.Errorf("%w: root %d with size %d", ErrInvalidRoot, root, c.g.Size)
	}
	if c.g.Rank == root {
		total := partial
		for i := 0; i < c.g.Size-1; i++ {
			p, err := recv(ctx, c.h.closed, c.h.parts)
			if err != nil {
				return 0, fmt.Errorf("collective: reduce gather: %w", err)
			}
			total += p
		}
		if err := c.release(ctx, root); err != nil {
			return 0, fmt.Errorf("collective: reduce: %w", err)
		}
		return total, nil
	}

	if err := send(ctx, c.h.closed, c.h.parts, partial); err != nil {
		return 0, fmt.Errorf("collective: reduce contribute: %w", err)
	}
	if _, err := recv(ctx, c.h.closed, c.h.done[c.g.Rank]); err != nil {
		return 0, fmt.Errorf("collective: reduce release: %w", err)
	}
	return 0, nil
}

// Close tears down the whole hub: every rank still blocked in a collective
// observes ErrClosed. Closing any one rank's communicator closes the group.
func (c *ChannelComm) Close() error {
	c.h.closeOnce.Do(func() { close(c.h.closed) })
	return nil
}

// gather waits for every non-root rank's arrival ack.
func (c *ChannelComm) gather(ctx context.Context) error {
	for i := 0; i < c.g.Size-1; i++ {
		if _, err := recv(ctx, c.h.closed, c.h.acks); err != nil {
			return err
		}
	}
	return nil
}

// release lets every non-root rank leave the collective.
func (c *ChannelComm) release(ctx context.Context, root int) error {
	for r := 0; r < c.g.Size; r++ {
		if r == root {
			continue
		}
		if err := send(ctx, c.h.closed, c.h.done[r], struct{}{}); err != nil {
			return err
		}
	}
	return nil
}

func send[T any](ctx context.Context, closed <-chan struct{}, ch chan<- T, v T) error {
	select {
	case ch <- v:
		return nil
	case <-closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func recv[T any](ctx context.Context, closed <-chan struct{}, ch <-chan T) (T, error) {
	var zero T
	select {
	case v := <-ch:
		return v, nil
	case <-closed:
		return zero, ErrClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
