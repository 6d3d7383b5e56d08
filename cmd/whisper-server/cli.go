// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/AshBuk/whisper-server/config"
	"github.com/AshBuk/whisper-server/internal/logger"
	"github.com/AshBuk/whisper-server/models"
)

// downloadTimeout bounds a --download run; large-v3 models run to several
// GiB, so this is generous rather than tight.
const downloadTimeout = 30 * time.Minute

// maybeRunDownload implements spec.md 4.1's "--download bypasses server
// startup: it runs only C1 and C2, writes progress to stderr, and exits
// with 0 on success or 1 on failure", mirroring the teacher's
// maybeRunCLI pre-dispatch scan in cmd/daemon/main.go.
func maybeRunDownload(args []string) (handled bool, exitCode int) {
	fs, flags := config.NewFlagSet("whisper-server")
	var discarded strings.Builder
	fs.SetOutput(&discarded)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return false, 0
		}
		// Malformed flags: let the normal startup path re-parse and
		// report the error the usual way.
		return false, 0
	}

	if flags.Download == "" {
		return false, 0
	}

	log := logger.NewDefaultLogger(logger.InfoLevel)
	provisioner := models.NewProvisioner(modelsDir(), log)

	ctx, cancel := context.WithTimeout(context.Background(), downloadTimeout)
	defer cancel()

	path, err := provisioner.Ensure(ctx, flags.Download)
	if err != nil {
		fmt.Fprintf(os.Stderr, "download failed: %v\n", err)
		return true, 1
	}

	fmt.Fprintf(os.Stderr, "model %s installed at %s\n", flags.Download, path)
	return true, 0
}
