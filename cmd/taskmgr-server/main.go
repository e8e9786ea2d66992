package main

import (
	"context"
	"log"
	"os"

	"github.com/existflow/taskmgr/internal/config"
	"github.com/existflow/taskmgr/internal/logger"
	"github.com/existflow/taskmgr/internal/storage"
	"github.com/existflow/taskmgr/internal/store"
	"github.com/existflow/taskmgr/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ServerAddr = listenAddr(cfg.ServerAddr, os.Getenv("PORT"))

	if err := logger.Init(logger.Config{
		Level:    logger.ParseLevel(cfg.LogLevel),
		FilePath: cfg.LogFile,
		Console:  true,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Close() }()

	ctx := context.Background()
	backend, err := storage.Open(storage.Kind(cfg.Storage), cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Printf("Error closing storage: %v", err)
		}
	}()

	if cfg.Encrypt {
		passphrase := os.Getenv("TASKMGR_PASSPHRASE")
		if passphrase == "" {
			log.Fatalf("TASKMGR_PASSPHRASE is required for encrypted storage")
		}
		encrypted, err := storage.NewEncrypted(ctx, backend, passphrase)
		if err != nil {
			log.Fatalf("Failed to unlock storage: %v", err)
		}
		backend = encrypted
	}

	s := store.New(backend)
	if _, err := s.Load(ctx); err != nil {
		log.Fatalf("Failed to load tasks: %v", err)
	}

	var opts []server.Option
	if cfg.APIToken != "" {
		opts = append(opts, server.WithToken(cfg.APIToken))
	}
	srv := server.New(s, opts...)

	log.Printf("taskmgr API starting on %s", cfg.ServerAddr)
	if err := srv.Start(cfg.ServerAddr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// listenAddr keeps the API on loopback; PORT only replaces the port
func listenAddr(configured, port string) string {
	if port == "" {
		return configured
	}
	return "127.0.0.1:" + port
}
