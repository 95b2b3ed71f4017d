// Package round drives the interactive compute loop: the coordinator rank
// obtains a granularity from its console, broadcasts it to the group, every
// rank integrates its slice of the domain, and the reduced total is reported
// together with the round's elapsed wall-clock time.
package round

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/qcserestipy/gompi/pkg/collective"
	"github.com/qcserestipy/gompi/pkg/group"
	"github.com/qcserestipy/gompi/pkg/quad"
)

// Result is one completed round as seen by the coordinator.
type Result struct {
	Intervals int     `json:"intervals"`
	Value     float64 `json:"value"`
	AbsError  float64 `json:"abs_error"`
	Elapsed   float64 `json:"elapsed_seconds"`
}

// Console is the coordinator's I/O collaborator. Only the coordinator rank
// ever calls it; every other rank may run with a nil Console.
type Console interface {
	// NextIntervals returns the granularity for the next round; 0 quits.
	NextIntervals() (int, error)
	// Report emits one completed round.
	Report(Result) error
}

// Run executes rounds until the coordinator's console supplies the
// termination sentinel 0, which every rank observes through the same
// broadcast and which is the only way the loop ends. Every rank of the group
// must call Run with its own communicator; the two collectives inside keep
// the group in lockstep. A negative granularity is broadcast as-is and yields
// empty integration loops, so the reported total is 0.
func Run(ctx context.Context, g group.Group, comm collective.Comm, console Console) error {
	log := logrus.WithFields(logrus.Fields{"rank": g.Rank, "size": g.Size})
	for {
		n := 0
		if g.IsCoordinator() {
			var err error
			if n, err = console.NextIntervals(); err != nil {
				return fmt.Errorf("round: read intervals: %w", err)
			}
		}

		n, err := comm.Broadcast(ctx, n, group.Coordinator)
		if err != nil {
			return fmt.Errorf("round: broadcast: %w", err)
		}
		if n == 0 {
			log.Debug("Termination sentinel received")
			return nil
		}

		start := time.Now()
		partial := quad.PartialSum(n, g.Rank, g.Size)
		log.WithFields(logrus.Fields{
			"intervals": n,
			"partial":   partial,
		}).Debug("Partial sum computed")

		total, err := comm.Reduce(ctx, partial, group.Coordinator)
		if err != nil {
			return fmt.Errorf("round: reduce: %w", err)
		}
		elapsed := time.Since(start)

		if g.IsCoordinator() {
			res := Result{
				Intervals: n,
				Value:     total,
				AbsError:  math.Abs(total - math.Pi),
				Elapsed:   elapsed.Seconds(),
			}
			log.WithFields(logrus.Fields{
				"intervals": n,
				"pi_approx": res.Value,
				"error":     res.AbsError,
				"duration":  elapsed,
			}).Debug("Round completed")
			if err := console.Report(res); err != nil {
				return fmt.Errorf("round: report: %w", err)
			}
		}
	}
}
