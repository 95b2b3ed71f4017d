// Package serve exposes the quadrature round over HTTP: one POST runs a full
// broadcast/compute/reduce round on a fresh in-process worker group and
// returns the coordinator's report as JSON.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	logger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/qcserestipy/gompi/pkg/collective"
	"github.com/qcserestipy/gompi/pkg/group"
	"github.com/qcserestipy/gompi/pkg/round"
)

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

type ComputeRequest struct {
	Intervals int `json:"intervals"`
}

type ComputeResponse struct {
	Intervals int     `json:"intervals"`
	Workers   int     `json:"workers"`
	Pi        float64 `json:"pi"`
	Error     float64 `json:"error"`
	Elapsed   float64 `json:"elapsed_seconds"`
}

type ComputeServer struct {
	NumWorkers int
	Router     *chi.Mux
	Metrics    *Metrics
}

func New(workers ...int) *ComputeServer {
	numWorkers := runtime.NumCPU()
	if len(workers) > 0 && workers[0] > 0 {
		numWorkers = workers[0]
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Logger("router", logrus.StandardLogger()))
	r.Use(middleware.Recoverer)

	s := &ComputeServer{NumWorkers: numWorkers, Router: r, Metrics: NewMetrics()}
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	CreateRoutes(r, "/compute", s.compute)
	return s
}

func (s *ComputeServer) compute(req ComputeRequest) (ComputeResponse, error) {
	if req.Intervals < 1 {
		return ComputeResponse{}, fmt.Errorf("intervals must be at least 1, got %d", req.Intervals)
	}
	res, err := s.RunRound(context.Background(), req.Intervals)
	if err != nil {
		return ComputeResponse{}, err
	}
	s.Metrics.Rounds.Inc()
	s.Metrics.RoundDuration.Observe(res.Elapsed)
	logrus.WithFields(logrus.Fields{
		"intervals": res.Intervals,
		"workers":   s.NumWorkers,
		"pi_approx": res.Value,
		"error":     res.AbsError,
	}).Info("Compute round served")
	return ComputeResponse{
		Intervals: res.Intervals,
		Workers:   s.NumWorkers,
		Pi:        res.Value,
		Error:     res.AbsError,
		Elapsed:   res.Elapsed,
	}, nil
}

// RunRound runs one collective round for the given granularity on a fresh
// in-process group of NumWorkers ranks.
func (s *ComputeServer) RunRound(ctx context.Context, intervals int) (round.Result, error) {
	comms, err := collective.NewChannelGroup(s.NumWorkers)
	if err != nil {
		return round.Result{}, err
	}
	console := &oneShotConsole{intervals: intervals}
	err = group.Launch(ctx, s.NumWorkers, func(ctx context.Context, g group.Group) error {
		if g.IsCoordinator() {
			return round.Run(ctx, g, comms[g.Rank], console)
		}
		return round.Run(ctx, g, comms[g.Rank], nil)
	})
	if err != nil {
		return round.Result{}, err
	}
	if !console.reported {
		return round.Result{}, errors.New("serve: round produced no result")
	}
	return console.result, nil
}

// oneShotConsole feeds a single granularity followed by the termination
// sentinel and captures the coordinator's report. Only the coordinator rank
// touches it, sequentially.
type oneShotConsole struct {
	intervals int
	fed       bool
	reported  bool
	result    round.Result
}

func (c *oneShotConsole) NextIntervals() (int, error) {
	if c.fed {
		return 0, nil
	}
	c.fed = true
	return c.intervals, nil
}

func (c *oneShotConsole) Report(r round.Result) error {
	c.result = r
	c.reported = true
	return nil
}
