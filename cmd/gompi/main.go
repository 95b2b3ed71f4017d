// Copyright Project GoMPI Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/qcserestipy/gompi/pkg/collective"
	"github.com/qcserestipy/gompi/pkg/config"
	"github.com/qcserestipy/gompi/pkg/group"
	"github.com/qcserestipy/gompi/pkg/round"
)

func init() {
	formatter := &logrus.TextFormatter{}
	formatter.FullTimestamp = true
	formatter.TimestampFormat = time.RFC3339
	logrus.SetFormatter(formatter)
}

func main() {
	workersPtr := flag.Int("workers", 0, "Number of worker ranks (default: all CPU cores)")
	configPtr := flag.String("config", "", "Optional YAML configuration file")
	flag.Parse()

	cfg := config.Default()
	if *configPtr != "" {
		var err error
		if cfg, err = config.Load(*configPtr); err != nil {
			logrus.Fatalf("Loading configuration failed: %v", err)
		}
	}
	if *workersPtr > 0 {
		cfg.Workers = *workersPtr
	}
	logrus.SetLevel(cfg.Level())

	logrus.Infof("System: %d CPU cores available", runtime.NumCPU())
	logrus.Infof("Starting π quadrature with %d worker ranks", cfg.Workers)

	comms, err := collective.NewChannelGroup(cfg.Workers)
	if err != nil {
		logrus.Fatalf("Group initialization failed: %v", err)
	}
	console := round.NewStdConsole(os.Stdin, os.Stdout)

	err = group.Launch(context.Background(), cfg.Workers, func(ctx context.Context, g group.Group) error {
		if g.IsCoordinator() {
			return round.Run(ctx, g, comms[g.Rank], console)
		}
		return round.Run(ctx, g, comms[g.Rank], nil)
	})
	if err != nil {
		logrus.Fatalf("Worker group exited with error: %v", err)
	}
	logrus.Info("All ranks terminated")
}
