package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Evgen-Mutagen/atm/internal/app"
	"github.com/Evgen-Mutagen/atm/internal/util/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := app.NewConfigFromFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(2)
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	application, err := app.New(cfg, logger.Log, os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The first signal stops the menu, a second one ends the process.
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()

		<-sigChan
		application.Close()
		logger.Sync()
		os.Exit(130)
	}()

	if err := application.Run(ctx); err != nil {
		logger.Log.Error("Menu loop failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
