// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"strings"
)

const envPrefix = "WHISPER_"

// envSource reads WHISPER_<CANONICAL_KEY> variables, where the canonical
// key path has been upper-cased and ":" replaced with "__" (spec.md
// sections 4.1 and 6). Since this port's canonical keys are single segments
// (no ":" path components), this reduces to WHISPER_<UPPER(key)>, e.g.
// WHISPER_PORT, WHISPER_MAXCONCURRENT. environ is injectable for tests.
func envSource(environ []string) source {
	out := source{}
	// Build the reverse lookup once: UPPER(canonicalKey) -> canonicalKey.
	upperToCanonical := make(map[string]string, len(canonicalKeys))
	for k := range canonicalKeys {
		upperToCanonical[strings.ToUpper(k)] = k
	}

	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, envPrefix) {
			continue
		}
		key := strings.TrimPrefix(name, envPrefix)
		key = strings.ReplaceAll(key, "__", ":")
		if canon, ok := upperToCanonical[key]; ok {
			out[canon] = value
			continue
		}
		// Also accept the literal canonical spelling uppercased with colons,
		// for multi-segment keys a future layer might introduce.
		lowered := strings.ToLower(key)
		if canonicalKeys[lowered] {
			out[lowered] = value
		}
	}
	return out
}

// Environ is a thin wrapper over os.Environ so callers don't need to import
// "os" just to call Resolve with the real process environment.
func Environ() []string { return os.Environ() }
