//go:build !cgo || nocgo

// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package engine

import (
	"context"

	"github.com/AshBuk/whisper-server/config"
	"github.com/AshBuk/whisper-server/internal/logger"
)

// stubEngine replaces cgoEngine in builds without cgo, failing every
// Transcribe call with ErrEngineUnavailable instead of refusing to compile.
type stubEngine struct{}

// NewEngine returns a stub Engine in a non-cgo build.
func NewEngine(modelPath string, device config.Device) (Engine, error) {
	return &stubEngine{}, nil
}

// NewEngineWithLogger mirrors the cgo build's constructor signature.
func NewEngineWithLogger(modelPath string, device config.Device, log logger.Logger) (Engine, error) {
	return &stubEngine{}, nil
}

func (s *stubEngine) Transcribe(ctx context.Context, req Request) (Result, error) {
	return Result{}, ErrEngineUnavailable
}

func (s *stubEngine) Close() error { return nil }
