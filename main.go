package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wx-shi/utxo-validator/internal/config"
	"github.com/wx-shi/utxo-validator/internal/pool"
	"github.com/wx-shi/utxo-validator/internal/server"
	"github.com/wx-shi/utxo-validator/internal/validator"
	"github.com/wx-shi/utxo-validator/pkg"
	"go.uber.org/zap"
)

var (
	flagconf string
)

func init() {
	flag.StringVar(&flagconf, "conf", "./config.yaml", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(flagconf)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := pkg.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	// Initialize UTXO pool store
	store, err := pool.NewStore(cfg.DB, logger)
	if err != nil {
		logger.Fatal("Error initializing pool store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Fatal("Store::Close", zap.Error(err))
		}
	}()

	// Build the transaction validator on top of the pool
	v := validator.New(store, validator.ECDSAVerifier{}, logger)

	// Start HTTP server
	httpServer := server.NewServer(cfg.Server, logger, store, v)
	httpServer.Run()

	// Setup signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Wait for signal
	<-sigCh
	logger.Info("Shutting down...")

	// Shutdown HTTP server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Error shutting down HTTP server", zap.Error(err))
	}
}
