package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	workercmd "github.com/louisbranch/atelier.studio/internal/cmd/worker"
	platformcmd "github.com/louisbranch/atelier.studio/internal/platform/cmd"
)

func main() {
	cfg, err := workercmd.ParseConfig(flag.CommandLine, os.Args[1:], os.LookupEnv)
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[WORKER] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceWorker, func(ctx context.Context) error {
		return workercmd.Run(ctx, cfg)
	}); err != nil {
		log.Fatalf("failed to run worker: %v", err)
	}
}
