// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package modelid holds the single closed set of Whisper model identifiers
// shared by config resolution, model provisioning, and the /v1/models
// enumeration. Spec.md's open question ("the source lists whisper-* model
// ids in one place and normalizes elsewhere") is resolved here: exactly one
// table, consulted by every caller that needs to validate or enumerate ids.
package modelid

import (
	"fmt"
	"strings"
)

// Canonical, in the order returned by List() / GET /v1/models.
const (
	WhisperTiny      = "whisper-tiny"
	WhisperTinyEn    = "whisper-tiny.en"
	WhisperBase      = "whisper-base"
	WhisperBaseEn    = "whisper-base.en"
	WhisperSmall     = "whisper-small"
	WhisperSmallEn   = "whisper-small.en"
	WhisperMedium    = "whisper-medium"
	WhisperMediumEn  = "whisper-medium.en"
	WhisperLargeV1   = "whisper-large-v1"
	WhisperLargeV2   = "whisper-large-v2"
	WhisperLargeV3   = "whisper-large-v3"
)

// canonical is the closed set in enumeration order.
var canonical = []string{
	WhisperTiny, WhisperTinyEn,
	WhisperBase, WhisperBaseEn,
	WhisperSmall, WhisperSmallEn,
	WhisperMedium, WhisperMediumEn,
	WhisperLargeV1, WhisperLargeV2, WhisperLargeV3,
}

// aliases maps informal spellings seen in configs/requests to canonical ids.
var aliases = map[string]string{
	"tiny":          WhisperTiny,
	"tiny.en":       WhisperTinyEn,
	"base":          WhisperBase,
	"base.en":       WhisperBaseEn,
	"small":         WhisperSmall,
	"small.en":      WhisperSmallEn,
	"medium":        WhisperMedium,
	"medium.en":     WhisperMediumEn,
	"large":         WhisperLargeV3,
	"large-v1":      WhisperLargeV1,
	"large-v2":      WhisperLargeV2,
	"large-v3":      WhisperLargeV3,
	"whisper-v3":    WhisperLargeV3,
	"whisper-large": WhisperLargeV3,
}

var isCanonical = func() map[string]bool {
	m := make(map[string]bool, len(canonical))
	for _, id := range canonical {
		m[id] = true
	}
	return m
}()

// Normalize resolves an input string (canonical id, alias, or mixed case) to
// its canonical model id. It returns an error naming the id for anything
// outside the closed set rather than silently coercing it.
func Normalize(raw string) (string, error) {
	id := strings.ToLower(strings.TrimSpace(raw))
	if id == "" {
		return "", fmt.Errorf("model id is empty")
	}
	if isCanonical[id] {
		return id, nil
	}
	if canon, ok := aliases[id]; ok {
		return canon, nil
	}
	return "", fmt.Errorf("unknown model id: %s", raw)
}

// IsValid reports whether id (already normalized or not) names a model in
// the closed set, case-insensitively.
func IsValid(raw string) bool {
	_, err := Normalize(raw)
	return err == nil
}

// IsCanonical reports whether raw is itself a canonical id (case-
// insensitively), as opposed to an alias that merely normalizes to one.
// Endpoints enumerating the closed set (GET /v1/models/{id}) should use
// this instead of Normalize, which also accepts aliases.
func IsCanonical(raw string) bool {
	return isCanonical[strings.ToLower(strings.TrimSpace(raw))]
}

// List returns the closed set of canonical model ids in enumeration order.
// The returned slice is owned by the caller.
func List() []string {
	out := make([]string, len(canonical))
	copy(out, canonical)
	return out
}
