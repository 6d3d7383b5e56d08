// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSourceJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{
		"host": "127.0.0.1",
		"model_name": "small",
		"log": {"level": "debug", "file": "x.log"}
	}`), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := fileSource(path, testLogger())
	if err != nil {
		t.Fatalf("fileSource error: %v", err)
	}
	if got["host"] != "127.0.0.1" {
		t.Errorf("host = %q", got["host"])
	}
	if got["model"] != "small" {
		t.Errorf("model_name should rewrite to model, got %q", got["model"])
	}
	if got["logLevel"] != "debug" {
		t.Errorf("nested log.level should flatten+rewrite to logLevel, got %q", got["logLevel"])
	}
	if got["logFile"] != "x.log" {
		t.Errorf("nested log.file should flatten+rewrite to logFile, got %q", got["logFile"])
	}
}

func TestFileSourceYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("port: 9090\nmax_concurrent: 4\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := fileSource(path, testLogger())
	if err != nil {
		t.Fatalf("fileSource error: %v", err)
	}
	if got["port"] != "9090" {
		t.Errorf("port = %q", got["port"])
	}
	if got["maxConcurrent"] != "4" {
		t.Errorf("maxConcurrent = %q", got["maxConcurrent"])
	}
}

func TestFileSourceRejectsPathTraversal(t *testing.T) {
	if _, err := fileSource("../../etc/passwd", testLogger()); err == nil {
		t.Error("fileSource must reject a path containing ..")
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	if _, err := fileSource(filepath.Join(t.TempDir(), "missing.json"), testLogger()); err == nil {
		t.Error("fileSource must error on a nonexistent file")
	}
}
