// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AshBuk/whisper-server/internal/logger"
)

func testLogger() logger.Logger {
	return logger.NewDefaultLogger(logger.ErrorLevel)
}

func TestMergePrecedence(t *testing.T) {
	defaults := source{"port": "8000", "host": "0.0.0.0"}
	file := source{"port": "9000"}
	env := source{"host": "127.0.0.1"}
	flags := source{"port": "9100"}

	got := merge(defaults, file, env, flags)
	if got["port"] != "9100" {
		t.Errorf("port = %q, want flags to win with 9100", got["port"])
	}
	if got["host"] != "127.0.0.1" {
		t.Errorf("host = %q, want env to win over defaults", got["host"])
	}
}

func TestMergeIgnoresUnknownKeys(t *testing.T) {
	got := merge(source{"bogus": "1", "port": "8000"})
	if _, ok := got["bogus"]; ok {
		t.Error("merge must drop keys outside canonicalKeys")
	}
	if got["port"] != "8000" {
		t.Error("merge must keep recognized keys")
	}
}

func TestBindRoundTrip(t *testing.T) {
	cfg, err := bind(defaultsSource())
	if err != nil {
		t.Fatalf("bind(defaultsSource()) error: %v", err)
	}
	if cfg.Host != "0.0.0.0" || cfg.Port != 8000 {
		t.Errorf("unexpected bind of defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate cleanly: %v", err)
	}
}

func TestBindRejectsMalformedInt(t *testing.T) {
	bad := defaultsSource()
	bad["port"] = "not-a-number"
	if _, err := bind(bad); err == nil {
		t.Error("bind should reject a non-numeric port")
	}
}

func TestResolveDefaultsOnly(t *testing.T) {
	cfg, _, err := Resolve(nil, testLogger())
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if cfg.ModelID != "whisper-base" {
		t.Errorf("ModelID = %q, want whisper-base default", cfg.ModelID)
	}
	if cfg.Port != 8000 {
		t.Errorf("Port = %d, want 8000 default", cfg.Port)
	}
}

func TestResolveFlagsOverrideDefaults(t *testing.T) {
	cfg, flags, err := Resolve([]string{"--port", "9500", "--model", "tiny"}, testLogger())
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if cfg.Port != 9500 {
		t.Errorf("Port = %d, want 9500 from flag", cfg.Port)
	}
	if cfg.ModelID != "whisper-tiny" {
		t.Errorf("ModelID = %q, want alias 'tiny' normalized to whisper-tiny", cfg.ModelID)
	}
	if flags.Download != "" {
		t.Errorf("Download = %q, want empty when --download unset", flags.Download)
	}
}

func TestResolveExplicitConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"port": 8800, "log_level": "debug"}`), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, _, err := Resolve([]string{"--config", path}, testLogger())
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if cfg.Port != 8800 {
		t.Errorf("Port = %d, want 8800 from config file", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug from config file", cfg.LogLevel)
	}
}

func TestResolveExplicitConfigFileMissingIsFatal(t *testing.T) {
	_, _, err := Resolve([]string{"--config", "/no/such/file.json"}, testLogger())
	if err == nil {
		t.Error("an explicit --config path that cannot be read must be a fatal error")
	}
}

func TestResolveInvalidModelIsCorrected(t *testing.T) {
	cfg, _, err := Resolve([]string{"--model", "not-a-real-model"}, testLogger())
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if cfg.ModelID != "whisper-base" {
		t.Errorf("ModelID = %q, want ValidateConfig to correct an unknown id to whisper-base", cfg.ModelID)
	}
}
