package collective

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/qcserestipy/gompi/pkg/group"
)

// DefaultSubjectPrefix is the subject namespace used when none is configured.
const DefaultSubjectPrefix = "gompi"

// ctrlMsg carries a broadcast value or an arrival ack.
type ctrlMsg struct {
	Rank  int `json:"rank"`
	Value int `json:"value"`
}

// partMsg carries one rank's reduce contribution.
type partMsg struct {
	Rank  int     `json:"rank"`
	Value float64 `json:"value"`
}

// NATSComm runs the collectives over NATS core pub/sub, for groups whose
// ranks live in separate OS processes. Each rank owns four inbox subjects
// under <prefix>.rank.<rank>: bcast and done for values pushed to it, ack and
// part for what it gathers when acting as root. All ranks of one group must
// share the prefix and must not share it with another concurrent group.
type NATSComm struct {
	nc *nats.Conn
	g  group.Group

	prefix string
	bcast  *nats.Subscription
	acks   *nats.Subscription
	parts  *nats.Subscription
	done   *nats.Subscription
}

var _ Comm = (*NATSComm)(nil)

// NewNATSComm subscribes the rank's inbox subjects on nc. The connection is
// owned by the caller and is not closed by Close.
func NewNATSComm(nc *nats.Conn, g group.Group, prefix string) (*NATSComm, error) {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	c := &NATSComm{nc: nc, g: g, prefix: prefix}

	subs := []struct {
		phase string
		dst   **nats.Subscription
	}{
		{"bcast", &c.bcast},
		{"ack", &c.acks},
		{"part", &c.parts},
		{"done", &c.done},
	}
	for _, s := range subs {
		sub, err := nc.SubscribeSync(c.subject(g.Rank, s.phase))
		if err != nil {
			return nil, fmt.Errorf("collective: subscribe %s for rank %d: %w", s.phase, g.Rank, err)
		}
		*s.dst = sub
	}
	// Make the subscriptions visible to the server before any peer publishes.
	if err := nc.Flush(); err != nil {
		return nil, fmt.Errorf("collective: flush subscriptions: %w", err)
	}
	return c, nil
}

func (c *NATSComm) subject(rank int, phase string) string {
	return fmt.Sprintf("%s.rank.%d.%s", c.prefix, rank, phase)
}

func (c *NATSComm) Broadcast(ctx context.Context, value int, root int) (int, error) {
	if root < 0 || root >= c.g.Size {
		return 0, fmt.Errorf("%w: root %d with size %d", ErrInvalidRoot, root, c.g.Size)
	}
	if c.g.Rank == root {
		payload, err := json.Marshal(ctrlMsg{Rank: root, Value: value})
		if err != nil {
			return 0, fmt.Errorf("collective: broadcast encode: %w", err)
		}
		for r := 0; r < c.g.Size; r++ {
			if r == root {
				continue
			}
			if err := c.nc.Publish(c.subject(r, "bcast"), payload); err != nil {
				return 0, fmt.Errorf("collective: broadcast to rank %d: %w", r, err)
			}
		}
		if err := c.nc.Flush(); err != nil {
			return 0, fmt.Errorf("collective: broadcast flush: %w", err)
		}
		if err := c.gatherAcks(ctx); err != nil {
			return 0, err
		}
		if err := c.release(); err != nil {
			return 0, err
		}
		return value, nil
	}

	msg, err := c.bcast.NextMsgWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("collective: broadcast receive: %w", err)
	}
	var m ctrlMsg
	if err := json.Unmarshal(msg.Data, &m); err != nil {
		return 0, fmt.Errorf("collective: broadcast decode: %w", err)
	}
	ack, err := json.Marshal(ctrlMsg{Rank: c.g.Rank})
	if err != nil {
		return 0, fmt.Errorf("collective: broadcast ack encode: %w", err)
	}
	if err := c.nc.Publish(c.subject(root, "ack"), ack); err != nil {
		return 0, fmt.Errorf("collective: broadcast ack: %w", err)
	}
	if err := c.nc.Flush(); err != nil {
		return 0, fmt.Errorf("collective: broadcast ack flush: %w", err)
	}
	if err := c.awaitRelease(ctx); err != nil {
		return 0, err
	}
	return m.Value, nil
}

func (c *NATSComm) Reduce(ctx context.Context, partial float64, root int) (float64, error) {
	if root < 0 || root >= c.g.Size {
		return 0, fmt.Errorf("%w: root %d with size %d", ErrInvalidRoot, root, c.g.Size)
	}
	if c.g.Rank == root {
		total := partial
		for i := 0; i < c.g.Size-1; i++ {
			msg, err := c.parts.NextMsgWithContext(ctx)
			if err != nil {
				return 0, fmt.Errorf("collective: reduce gather: %w", err)
			}
			var m partMsg
			if err := json.Unmarshal(msg.Data, &m); err != nil {
				return 0, fmt.Errorf("collective: reduce decode: %w", err)
			}
			total += m.Value
		}
		if err := c.release(); err != nil {
			return 0, err
		}
		return total, nil
	}

	payload, err := json.Marshal(partMsg{Rank: c.g.Rank, Value: partial})
	if err != nil {
		return 0, fmt.Errorf("collective: reduce encode: %w", err)
	}
	if err := c.nc.Publish(c.subject(root, "part"), payload); err != nil {
		return 0, fmt.Errorf("collective: reduce contribute: %w", err)
	}
	if err := c.nc.Flush(); err != nil {
		return 0, fmt.Errorf("collective: reduce flush: %w", err)
	}
	if err := c.awaitRelease(ctx); err != nil {
		return 0, err
	}
	return 0, nil
}

// Close drops the rank's subscriptions. The underlying connection stays open.
func (c *NATSComm) Close() error {
	var first error
	for _, sub := range []*nats.Subscription{c.bcast, c.acks, c.parts, c.done} {
		if sub == nil {
			continue
		}
		if err := sub.Unsubscribe(); err != nil && first == nil {
			first = fmt.Errorf("collective: unsubscribe: %w", err)
		}
	}
	return first
}

// gatherAcks waits for every non-root rank's arrival before the root moves on.
func (c *NATSComm) gatherAcks(ctx context.Context) error {
	for i := 0; i < c.g.Size-1; i++ {
		if _, err := c.acks.NextMsgWithContext(ctx); err != nil {
			return fmt.Errorf("collective: gather acks: %w", err)
		}
	}
	return nil
}

// release lets every non-root rank leave the collective.
func (c *NATSComm) release() error {
	for r := 0; r < c.g.Size; r++ {
		if r == c.g.Rank {
			continue
		}
		if err := c.nc.Publish(c.subject(r, "done"), nil); err != nil {
			return fmt.Errorf("collective: release rank %d: %w", r, err)
		}
	}
	if err := c.nc.Flush(); err != nil {
		return fmt.Errorf("collective: release flush: %w", err)
	}
	return nil
}

func (c *NATSComm) awaitRelease(ctx context.Context) error {
	if _, err := c.done.NextMsgWithContext(ctx); err != nil {
		return fmt.Errorf("collective: await release: %w", err)
	}
	return nil
}
