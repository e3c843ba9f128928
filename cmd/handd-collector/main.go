// handd-collector is the development telemetry collector: it accepts
// snapshots from handd over HTTP and streams them to websocket
// watchers. It is a test harness for the egress path, not the
// production backend.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/neurograsp/handd/internal/log"
	"github.com/neurograsp/handd/pkg/collector"
)

func main() {
	listen := flag.String("listen", ":9090", "listen address")
	logLevel := flag.String("log-level", "info", "debug, info, warn, error")
	flag.Parse()

	log.Init(*logLevel)

	srv := collector.NewServer(*listen, log.For("collector"))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down")
		srv.Shutdown()
	}()

	log.Info("collector listening", "addr", *listen)
	if err := srv.Listen(); err != nil {
		log.Error("collector stopped", "error", err)
		os.Exit(1)
	}
}
