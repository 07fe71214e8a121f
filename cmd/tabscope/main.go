package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tabscope/internal/config"
	"tabscope/internal/ui"
	"tabscope/internal/util/logx"
	"tabscope/internal/version"
)

func main() {
	logx.SetLevelFromEnv()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	if cfg.ShowVersion {
		fmt.Println("tabscope", version.String())
		return
	}

	// Setup cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logx.Infof("starting tabscope %s: %s", version.String(), cfg.String())
	if err := ui.Run(ctx, cfg); err != nil {
		logx.Errorf("tabscope exited with error: %v", err)
		os.Exit(1)
	}
}
