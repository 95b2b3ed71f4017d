// Package group holds the fixed identity of a worker group: each worker's
// rank and the shared group size, established once at startup and immutable
// for the life of the run.
package group

import (
	"errors"
	"fmt"
)

// Coordinator is the rank that drives rounds and owns all console I/O.
const Coordinator = 0

var (
	ErrInvalidSize = errors.New("group: size must be at least 1")
	ErrInvalidRank = errors.New("group: rank out of range")
)

// Group identifies one worker within a fixed-size group. It is passed
// explicitly into every component that needs rank or size; there is no
// process-global group state.
type Group struct {
	Rank int
	Size int
}

// New validates rank against size. Ranks form the contiguous range [0, size).
func New(rank, size int) (Group, error) {
	if size < 1 {
		return Group{}, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	if rank < 0 || rank >= size {
		return Group{}, fmt.Errorf("%w: rank %d with size %d", ErrInvalidRank, rank, size)
	}
	return Group{Rank: rank, Size: size}, nil
}

// IsCoordinator reports whether this worker is the coordinator rank.
func (g Group) IsCoordinator() bool { return g.Rank == Coordinator }
