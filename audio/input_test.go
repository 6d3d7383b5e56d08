// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package audio

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestSaveUploadWritesFile(t *testing.T) {
	dir := t.TempDir()
	body := "fake-audio-bytes"

	path, cleanup, err := SaveUpload(dir, strings.NewReader(body), 1024)
	if err != nil {
		t.Fatalf("SaveUpload error: %v", err)
	}
	defer cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved upload: %v", err)
	}
	if string(data) != body {
		t.Errorf("saved content = %q, want %q", string(data), body)
	}
}

func TestSaveUploadEnforcesSizeLimit(t *testing.T) {
	dir := t.TempDir()
	body := strings.Repeat("a", 2048)

	_, _, err := SaveUpload(dir, strings.NewReader(body), 1024)
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("SaveUpload error = %v, want ErrTooLarge", err)
	}
}

func TestSaveUploadAllowsExactLimit(t *testing.T) {
	dir := t.TempDir()
	body := strings.Repeat("a", 1024)

	path, cleanup, err := SaveUpload(dir, strings.NewReader(body), 1024)
	if err != nil {
		t.Fatalf("SaveUpload error: %v", err)
	}
	defer cleanup()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat saved upload: %v", err)
	}
	if info.Size() != 1024 {
		t.Errorf("saved size = %d, want 1024", info.Size())
	}
}

func TestSaveUploadCleanupRemovesFile(t *testing.T) {
	dir := t.TempDir()
	path, cleanup, err := SaveUpload(dir, strings.NewReader("x"), 1024)
	if err != nil {
		t.Fatalf("SaveUpload error: %v", err)
	}
	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("cleanup should remove the saved upload file")
	}
}
