// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package config

import "testing"

func TestValidateConfigCorrectsOutOfRangeValues(t *testing.T) {
	cfg := &EffectiveConfig{
		Host:              "",
		Port:              -1,
		RequestTimeoutSec: 0,
		ModelID:           "nonsense",
		Language:          "",
		MaxConcurrent:     -5,
		QueueWaitSec:      -1,
		SampleRate:        1,
		MaxFileSizeMB:     -10,
		Device:            Device("quantum"),
		LogLevel:          "shout",
		LogFilePath:       "",
		LogMaxBytes:       0,
	}

	err := ValidateConfig(cfg)
	if err == nil {
		t.Fatal("expected ValidateConfig to report corrections")
	}

	if cfg.Host != "0.0.0.0" || cfg.Port != 8000 || cfg.ModelID != "whisper-base" ||
		cfg.Device != DeviceAuto || cfg.LogLevel != "info" || cfg.SampleRate != 16000 {
		t.Errorf("ValidateConfig did not correct all fields: %+v", cfg)
	}

	if verr := cfg.Validate(); verr != nil {
		t.Errorf("corrected config should pass strict Validate: %v", verr)
	}
}

func TestValidateConfigNoOpOnSaneInput(t *testing.T) {
	cfg := &EffectiveConfig{
		Host: "0.0.0.0", Port: 8000, RequestTimeoutSec: 120, ModelID: "whisper-base",
		Language: "auto", MaxConcurrent: 2, QueueWaitSec: 10, SampleRate: 16000,
		MaxFileSizeMB: 100, Device: DeviceAuto, LogLevel: "info",
		LogFilePath: "logs/whisper-server.log", LogMaxBytes: 10485760,
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("already-sane config should not be flagged: %v", err)
	}
}
