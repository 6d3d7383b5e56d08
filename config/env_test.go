// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package config

import "testing"

func TestEnvSource(t *testing.T) {
	environ := []string{
		"WHISPER_PORT=9200",
		"WHISPER_MODEL=small",
		"WHISPER_MAXCONCURRENT=5",
		"PATH=/usr/bin",
		"WHISPER_UNRECOGNIZED=ignored",
	}
	got := envSource(environ)
	if got["port"] != "9200" {
		t.Errorf("port = %q", got["port"])
	}
	if got["model"] != "small" {
		t.Errorf("model = %q", got["model"])
	}
	if got["maxConcurrent"] != "5" {
		t.Errorf("maxConcurrent = %q", got["maxConcurrent"])
	}
	if _, ok := got["unrecognized"]; ok {
		t.Error("envSource must not surface unmapped WHISPER_ vars")
	}
	if len(got) != 3 {
		t.Errorf("len(got) = %d, want 3", len(got))
	}
}

func TestEnvSourceIgnoresNonPrefixed(t *testing.T) {
	got := envSource([]string{"HOME=/root", "PORT=9999"})
	if len(got) != 0 {
		t.Errorf("non-WHISPER_ vars must be ignored, got %+v", got)
	}
}
