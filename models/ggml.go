// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package models provisions Whisper ggml weight files on disk, downloading
// them from Hugging Face on first use and coalescing concurrent requests
// for the same model id into a single download.
package models

import "github.com/AshBuk/whisper-server/modelid"

// ggmlFilenames maps a canonical model id to the upstream ggml filename
// published under ggerganov/whisper.cpp on Hugging Face.
var ggmlFilenames = map[string]string{
	modelid.WhisperTiny:     "ggml-tiny.bin",
	modelid.WhisperTinyEn:   "ggml-tiny.en.bin",
	modelid.WhisperBase:     "ggml-base.bin",
	modelid.WhisperBaseEn:   "ggml-base.en.bin",
	modelid.WhisperSmall:    "ggml-small.bin",
	modelid.WhisperSmallEn:  "ggml-small.en.bin",
	modelid.WhisperMedium:   "ggml-medium.bin",
	modelid.WhisperMediumEn: "ggml-medium.en.bin",
	modelid.WhisperLargeV1:  "ggml-large-v1.bin",
	modelid.WhisperLargeV2:  "ggml-large-v2.bin",
	modelid.WhisperLargeV3:  "ggml-large-v3.bin",
}

// minSizeBytes is a conservative lower bound on the published file size for
// each model, used as a sanity check against a truncated or HTML-error
// download landing where a binary should be. Values sit comfortably below
// the real published sizes so a healthy download never trips this check.
var minSizeBytes = map[string]int64{
	modelid.WhisperTiny:     60 * 1024 * 1024,
	modelid.WhisperTinyEn:   60 * 1024 * 1024,
	modelid.WhisperBase:     120 * 1024 * 1024,
	modelid.WhisperBaseEn:   120 * 1024 * 1024,
	modelid.WhisperSmall:    400 * 1024 * 1024,
	modelid.WhisperSmallEn:  400 * 1024 * 1024,
	modelid.WhisperMedium:   1200 * 1024 * 1024,
	modelid.WhisperMediumEn: 1200 * 1024 * 1024,
	modelid.WhisperLargeV1:  2500 * 1024 * 1024,
	modelid.WhisperLargeV2:  2500 * 1024 * 1024,
	modelid.WhisperLargeV3:  2500 * 1024 * 1024,
}

// baseURL is a var rather than a const so tests can redirect downloads to a
// local httptest server.
var baseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/"

func downloadURL(id string) (string, error) {
	name, ok := ggmlFilenames[id]
	if !ok {
		return "", errUnknownModel(id)
	}
	return baseURL + name, nil
}

func minSizeFor(id string) int64 {
	if n, ok := minSizeBytes[id]; ok {
		return n
	}
	return 10 * 1024 * 1024
}
