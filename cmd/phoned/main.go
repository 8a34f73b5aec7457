package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mudita/MuditaOS-sub019/internal/infrastructure/config"
	"github.com/mudita/MuditaOS-sub019/internal/server"
)

func main() {
	manifestPath := flag.String("manifest", "", "Application manifest (overrides MANIFEST_PATH)")
	debugAddr := flag.String("debug", "", "Debug server address (overrides DEBUG_ADDR)")
	keys := flag.Bool("keys", true, "Read keypad input from stdin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *manifestPath != "" {
		cfg.Manifest.Path = *manifestPath
	}
	if *debugAddr != "" {
		cfg.Debug.Address = *debugAddr
	}

	srv, err := server.NewServer(cfg, server.Options{Display: os.Stdout})
	if err != nil {
		log.Fatalf("Failed to create runtime: %v", err)
	}

	if err := srv.Boot(); err != nil {
		log.Printf("Some applications failed to launch: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *keys {
		go func() {
			if err := srv.Keys().Run(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Keypad input stopped: %v", err)
			}
		}()
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutting down gracefully...")
	case err := <-errChan:
		if err != nil {
			log.Printf("Runtime error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Close(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
		os.Exit(1)
	}
}
