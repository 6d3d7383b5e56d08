// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Command whisper-server runs the OpenAI-compatible speech-to-text HTTP
// server. Its flag/dispatch shape is grounded on the teacher's
// cmd/daemon/main.go: a pre-dispatch scan (maybeRunCLI there, maybeRunDownload
// here) that short-circuits normal startup for one specific CLI mode before
// falling through to the long-running server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/AshBuk/whisper-server/admission"
	"github.com/AshBuk/whisper-server/audio"
	"github.com/AshBuk/whisper-server/config"
	"github.com/AshBuk/whisper-server/engine"
	"github.com/AshBuk/whisper-server/internal/logger"
	"github.com/AshBuk/whisper-server/models"
	"github.com/AshBuk/whisper-server/server"
)

func main() {
	args := os.Args[1:]

	if handled, exitCode := maybeRunDownload(args); handled {
		os.Exit(exitCode)
	}

	os.Exit(runServer(args))
}

func runServer(args []string) int {
	bootLog := logger.NewDefaultLogger(logger.InfoLevel)

	cfg, _, err := config.Resolve(args, bootLog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve configuration: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		return 1
	}

	appLogger, err := buildLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to configure logging: %v\n", err)
		return 1
	}

	tempRoot := filepath.Join(os.TempDir(), "whisperapi")

	app := &server.App{
		Config:      cfg,
		Provisioner: models.NewProvisioner(modelsDir(), appLogger),
		Admission:   admission.NewController(cfg.MaxConcurrent, time.Duration(cfg.QueueWaitSec)*time.Second),
		Normalizer:  audio.NewNormalizer(tempRoot, "ffmpeg", appLogger),
		TempDir:     tempRoot,
		Log:         appLogger,
	}
	app.EngineMgr = engine.NewManager(app.Provisioner, engineFactory(appLogger), cfg.ModelID, cfg.Device, appLogger)

	// C2 runs at startup for the configured model, per spec.md section 2;
	// a failure here is logged but not fatal, since Manager.Get retries
	// the download lazily on the first transcription request.
	if _, err := app.Provisioner.Ensure(context.Background(), cfg.ModelID); err != nil {
		appLogger.Warning("startup model provisioning failed, will retry on first request: %v", err)
	}

	srv := server.NewServer(app)
	if err := srv.Start(); err != nil {
		appLogger.Error("failed to start server: %v", err)
		return 1
	}

	waitForShutdownSignal()
	srv.Stop()
	return 0
}

func engineFactory(log logger.Logger) engine.Factory {
	return func(modelPath string, device config.Device) (engine.Engine, error) {
		return engine.NewEngineWithLogger(modelPath, device, log)
	}
}

func buildLogger(cfg *config.EffectiveConfig) (logger.Logger, error) {
	level := logger.InfoLevel
	switch cfg.LogLevel {
	case "debug":
		level = logger.DebugLevel
	case "warning":
		level = logger.WarningLevel
	case "error":
		level = logger.ErrorLevel
	}

	return logger.Configure(logger.Config{
		Level:        level,
		File:         cfg.LogFilePath,
		MaxSizeBytes: cfg.LogMaxBytes,
		MaxBackups:   10,
		AlsoStderr:   true,
	})
}

// modelsDir resolves to <exe-dir>/models, per spec.md section 6's
// filesystem layout ("models/<normalizedId>.bin" relative to the
// executable unless absolute).
func modelsDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "models"
	}
	return filepath.Join(filepath.Dir(exe), "models")
}

func waitForShutdownSignal() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
}
