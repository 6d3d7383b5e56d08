// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package models

import (
	"strings"
	"testing"

	"github.com/AshBuk/whisper-server/modelid"
)

func TestDownloadURLKnownModel(t *testing.T) {
	url, err := downloadURL(modelid.WhisperBase)
	if err != nil {
		t.Fatalf("downloadURL error: %v", err)
	}
	if !strings.HasSuffix(url, "ggml-base.bin") {
		t.Errorf("downloadURL = %q, want suffix ggml-base.bin", url)
	}
}

func TestDownloadURLUnknownModel(t *testing.T) {
	if _, err := downloadURL("whisper-nonexistent"); err == nil {
		t.Error("downloadURL should reject an id outside ggmlFilenames")
	}
}

func TestMinSizeForFallsBackForUnlistedID(t *testing.T) {
	if got := minSizeFor("whisper-nonexistent"); got != 10*1024*1024 {
		t.Errorf("minSizeFor fallback = %d, want 10MiB", got)
	}
}

func TestEveryCanonicalModelHasADownloadSource(t *testing.T) {
	for _, id := range modelid.List() {
		if _, ok := ggmlFilenames[id]; !ok {
			t.Errorf("canonical model %s has no ggml filename mapping", id)
		}
	}
}
