package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medipin-ocr/internal/platform/config"
	"medipin-ocr/internal/platform/logger"
	"medipin-ocr/internal/router"
)

// @title Medipin OCR API
// @version 1.0
// @description Lectura de recetas y sobres de medicamentos, comparación y horario de tomas.
// @BasePath /
func main() {
	log, err := logger.NewFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid config", map[string]any{"error": err})
		os.Exit(1)
	}

	r := router.NewRouter(router.Options{Config: cfg, Logger: log})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		// OCR puede tardar; el timeout del motor manda.
		WriteTimeout: cfg.OCR.Timeout + 15*time.Second,
	}

	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "ocr_engine": cfg.OCR.Engine})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", map[string]any{"error": err})
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", map[string]any{"error": err})
	}
	log.Info("server stopped", nil)
}
