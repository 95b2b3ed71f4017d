package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/qcserestipy/gompi/pkg/config"
	"github.com/qcserestipy/gompi/pkg/serve"
)

func main() {
	portPtr := flag.Int("port", 0, "HTTP port (default: 3000)")
	workersPtr := flag.Int("workers", 0, "Number of worker ranks per round (default: all CPU cores)")
	configPtr := flag.String("config", "", "Optional YAML configuration file")
	flag.Parse()

	cfg := config.Default()
	if *configPtr != "" {
		var err error
		if cfg, err = config.Load(*configPtr); err != nil {
			logrus.Fatalf("Loading configuration failed: %v", err)
		}
	}
	if *portPtr > 0 {
		cfg.HTTP.Port = *portPtr
	}
	if *workersPtr > 0 {
		cfg.Workers = *workersPtr
	}
	logrus.SetLevel(cfg.Level())

	server := serve.New(cfg.Workers)
	logrus.Infof("Serving quadrature rounds with %d worker ranks", server.NumWorkers)
	serve.Launch(server, cfg.HTTP.Port)
}
