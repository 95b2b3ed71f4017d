package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/nats-io/nats.go"
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

// One rank per process. Launch the same binary size times with ranks 0..size-1
// against a shared NATS server; rank 0 reads granularities from stdin.
func main() {
	rankPtr := flag.Int("rank", -1, "Rank of this worker within the group")
	sizePtr := flag.Int("size", 0, "Total number of worker ranks")
	urlPtr := flag.String("url", "", "NATS server URL (default: nats://127.0.0.1:4222)")
	subjectPtr := flag.String("subject", "", "Subject prefix shared by the group (default: gompi)")
	configPtr := flag.String("config", "", "Optional YAML configuration file")
	flag.Parse()

	cfg := config.Default()
	if *configPtr != "" {
		var err error
		if cfg, err = config.Load(*configPtr); err != nil {
			logrus.Fatalf("Loading configuration failed: %v", err)
		}
	}
	if *urlPtr != "" {
		cfg.NATS.URL = *urlPtr
	}
	if *subjectPtr != "" {
		cfg.NATS.Subject = *subjectPtr
	}
	logrus.SetLevel(cfg.Level())

	g, err := group.New(*rankPtr, *sizePtr)
	if err != nil {
		logrus.Fatalf("Group initialization failed: %v", err)
	}
	log := logrus.WithFields(logrus.Fields{"rank": g.Rank, "size": g.Size})

	nc, err := nats.Connect(cfg.NATS.URL,
		nats.Timeout(2*time.Second),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(3),
	)
	if err != nil {
		log.Fatalf("Connecting to NATS at %s failed: %v", cfg.NATS.URL, err)
	}
	defer nc.Close()

	comm, err := collective.NewNATSComm(nc, g, cfg.NATS.Subject)
	if err != nil {
		log.Fatalf("Group initialization failed: %v", err)
	}
	defer comm.Close()

	var console round.Console
	if g.IsCoordinator() {
		console = round.NewStdConsole(os.Stdin, os.Stdout)
	}
	log.Info("Rank joined the group")

	if err := round.Run(context.Background(), g, comm, console); err != nil {
		log.Fatalf("Worker exited with error: %v", err)
	}
	log.Info("Rank terminated")
}
