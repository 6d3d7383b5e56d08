// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// SaveUpload copies r to a fresh temp file under tempDir, up to maxBytes.
// It returns io.ErrUnexpectedEOF's sibling condition as a distinguishable
// error so the HTTP layer (C6/C7) can map it to a 413 response: callers
// should compare against ErrTooLarge.
func SaveUpload(tempDir string, r io.Reader, maxBytes int64) (path string, cleanup func(), err error) {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if err := os.MkdirAll(tempDir, 0o700); err != nil {
		return "", nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	path = filepath.Join(tempDir, fmt.Sprintf("upload-%s.bin", uuid.NewString()))
	// #nosec G304 -- path is generated from a UUID under a controlled
	// base directory, not derived from client input.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create upload temp file: %w", err)
	}
	cleanup = func() { _ = os.Remove(path) }
	defer func() { _ = f.Close() }()

	// Read up to maxBytes+1 so a stream exactly at the limit doesn't fail,
	// while one byte over reliably trips ErrTooLarge.
	limited := io.LimitReader(r, maxBytes+1)
	written, err := io.Copy(f, limited)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to save upload: %w", err)
	}
	if written > maxBytes {
		cleanup()
		return "", nil, ErrTooLarge
	}
	return path, cleanup, nil
}

// ErrTooLarge is returned by SaveUpload when the stream exceeds maxBytes.
var ErrTooLarge = fmt.Errorf("upload exceeds maximum allowed size")
