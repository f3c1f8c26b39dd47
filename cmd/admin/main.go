package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/profiles/internal/admin"
	"github.com/dmitrijs2005/profiles/internal/logging"
	"github.com/dmitrijs2005/profiles/internal/server"
	"github.com/dmitrijs2005/profiles/internal/server/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger := logging.NewJSON(os.Stderr, cfg.LogLevel)

	svc, err := server.NewServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	return admin.New(svc.Identity, os.Stdin, os.Stdout, logger).Run(ctx, os.Args[1:])
}
