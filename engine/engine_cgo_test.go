//go:build cgo

// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package engine

import (
	"testing"

	"github.com/AshBuk/whisper-server/config"
)

func TestNewEngineRejectsMissingModel(t *testing.T) {
	_, err := NewEngine("/non/existent/model.bin", config.DeviceAuto)
	if err == nil {
		t.Fatal("NewEngine should error when the model file does not exist")
	}
}
