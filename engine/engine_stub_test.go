//go:build !cgo || nocgo

// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/AshBuk/whisper-server/config"
)

func TestStubEngineAlwaysFails(t *testing.T) {
	e, err := NewEngine("/any/path.bin", config.DeviceCPU)
	if err != nil {
		t.Fatalf("NewEngine should not itself fail in the stub build: %v", err)
	}
	_, err = e.Transcribe(context.Background(), Request{AudioPath: "/any/audio.wav"})
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("Transcribe error = %v, want ErrEngineUnavailable", err)
	}
	if err := e.Close(); err != nil {
		t.Errorf("stub Close should be a no-op, got %v", err)
	}
}
