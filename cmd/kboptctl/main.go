package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer observability.Sync()

	if err := Execute(ctx); err != nil {
		os.Exit(1)
	}
}
