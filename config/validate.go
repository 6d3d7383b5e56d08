// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"strings"

	"github.com/AshBuk/whisper-server/modelid"
)

// ValidateConfig inspects cfg for unsafe or out-of-range values, correcting
// each to a safe default in place, and returns an error aggregating every
// correction made. Grounded on the teacher's config/validators package,
// folded into this package directly: a separate validators subpackage would
// need to import EffectiveConfig from here, and this package already needs
// the corrected values back, which would form an import cycle the teacher
// avoided by keeping its validated type (config/models.Config) in a third
// package neither config nor validators otherwise depended on.
func ValidateConfig(cfg *EffectiveConfig) error {
	var issues []string

	if cfg.Port <= 0 || cfg.Port > 65535 {
		issues = append(issues, fmt.Sprintf("invalid port: %d, correcting to 8000", cfg.Port))
		cfg.Port = 8000
	}

	if cfg.Host == "" {
		issues = append(issues, "empty host, correcting to 0.0.0.0")
		cfg.Host = "0.0.0.0"
	}

	if normalized, err := modelid.Normalize(cfg.ModelID); err != nil {
		issues = append(issues, fmt.Sprintf("invalid model id: %s, correcting to 'whisper-base'", cfg.ModelID))
		cfg.ModelID = modelid.WhisperBase
	} else {
		cfg.ModelID = normalized
	}

	if cfg.Language == "" {
		cfg.Language = "auto"
	}

	if cfg.RequestTimeoutSec <= 0 || cfg.RequestTimeoutSec > 3600 {
		issues = append(issues, fmt.Sprintf("invalid request timeout: %ds, correcting to 120s", cfg.RequestTimeoutSec))
		cfg.RequestTimeoutSec = 120
	}

	if cfg.MaxConcurrent <= 0 || cfg.MaxConcurrent > 256 {
		issues = append(issues, fmt.Sprintf("invalid max concurrent: %d, correcting to 2", cfg.MaxConcurrent))
		cfg.MaxConcurrent = 2
	}

	if cfg.QueueWaitSec < 0 || cfg.QueueWaitSec > 600 {
		issues = append(issues, fmt.Sprintf("invalid queue wait: %ds, correcting to 10s", cfg.QueueWaitSec))
		cfg.QueueWaitSec = 10
	}

	if cfg.SampleRate < 8000 || cfg.SampleRate > 48000 {
		issues = append(issues, fmt.Sprintf("invalid sample rate: %d, correcting to 16000", cfg.SampleRate))
		cfg.SampleRate = 16000
	}

	if cfg.MaxFileSizeMB <= 0 || cfg.MaxFileSizeMB > 2048 {
		issues = append(issues, fmt.Sprintf("invalid max file size: %dMB, correcting to 100MB", cfg.MaxFileSizeMB))
		cfg.MaxFileSizeMB = 100
	}

	validDevices := map[Device]bool{DeviceAuto: true, DeviceCPU: true, DeviceGPU: true}
	if !validDevices[cfg.Device] {
		issues = append(issues, fmt.Sprintf("invalid device: %s, correcting to 'auto'", cfg.Device))
		cfg.Device = DeviceAuto
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warning": true, "error": true}
	if !validLevels[strings.ToLower(cfg.LogLevel)] {
		issues = append(issues, fmt.Sprintf("invalid log level: %s, correcting to 'info'", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if cfg.LogFilePath == "" {
		cfg.LogFilePath = "logs/whisper-server.log"
	}

	if cfg.LogMaxBytes <= 0 {
		issues = append(issues, fmt.Sprintf("invalid log max bytes: %d, correcting to 10MiB", cfg.LogMaxBytes))
		cfg.LogMaxBytes = 10 * 1024 * 1024
	}

	if len(issues) > 0 {
		return fmt.Errorf("configuration validation issues: %s", strings.Join(issues, "; "))
	}
	return nil
}
