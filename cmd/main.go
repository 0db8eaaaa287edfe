package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/seekstruth-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	a.Log.Info("Server starting", "addr", a.Cfg.Addr(), "store", a.Cfg.StoreBackend, "checkout", a.Cfg.Checkout.Provider)
	if err := a.Run(ctx); err != nil {
		a.Log.Error("Server stopped", "error", err)
		_ = a.Close()
		os.Exit(1)
	}
	a.Log.Info("Server stopped")
}
