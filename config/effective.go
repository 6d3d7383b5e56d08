// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package config resolves the server's EffectiveConfig from layered sources
// (defaults, an auto-discovered file, an explicit --config file, WHISPER_*
// env vars, and CLI flags), matching the precedence order and flat-key-map
// merge strategy described in spec.md sections 4.1 and 9.
//
// The layering style is grounded on the teacher's config/loaders/yaml_loader.go
// (defaults applied before parsing, then validated after), generalized here
// into an explicit ordered list of sources so each layer can be tested in
// isolation.
package config

import "fmt"

// Device selects which compute backend the engine should use.
type Device string

const (
	DeviceAuto Device = "auto"
	DeviceCPU  Device = "cpu"
	DeviceGPU  Device = "gpu"
)

// EffectiveConfig is the immutable, fully merged configuration consulted by
// every component. Once Resolve returns one, nothing mutates it further.
type EffectiveConfig struct {
	Host              string
	Port              int
	RequestTimeoutSec int
	ModelID           string
	Language          string
	MaxConcurrent     int
	QueueWaitSec      int
	SampleRate        int
	MaxFileSizeMB     int64
	Device            Device
	LogLevel          string
	LogFilePath       string
	LogMaxBytes       int64
}

// MaxFileSizeBytes is the byte form of MaxFileSizeMB, used by the size caps
// enforced while reading uploads (spec.md section 4.6).
func (c EffectiveConfig) MaxFileSizeBytes() int64 {
	return c.MaxFileSizeMB * 1024 * 1024
}

// Validate rejects an EffectiveConfig with structurally nonsensical values.
// Per-field correction to defaults happens earlier, in ValidateConfig; this
// is the last-resort guard against anything that slipped through.
func (c EffectiveConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.MaxConcurrent <= 0 {
		return fmt.Errorf("invalid maxConcurrent: %d", c.MaxConcurrent)
	}
	if c.QueueWaitSec < 0 {
		return fmt.Errorf("invalid queueWaitSec: %d", c.QueueWaitSec)
	}
	if c.RequestTimeoutSec <= 0 {
		return fmt.Errorf("invalid requestTimeoutSec: %d", c.RequestTimeoutSec)
	}
	if c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("invalid maxFileSizeMb: %d", c.MaxFileSizeMB)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("invalid sampleRate: %d", c.SampleRate)
	}
	switch c.Device {
	case DeviceAuto, DeviceCPU, DeviceGPU:
	default:
		return fmt.Errorf("invalid device: %s", c.Device)
	}
	return nil
}
