// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package config

import "github.com/AshBuk/whisper-server/internal/logger"

// source is a flat map of canonical key -> string value, as described in
// spec.md section 9: "implement as a list of typed key-value sources merged
// right-to-left into a flat key map, then bound once to the typed
// EffectiveConfig."
//
// Canonical keys are flat camelCase names (e.g. "logLevel"). The env layer
// derives variable names mechanically from them: upper-case the key and
// replace any ":" path separator with "__" (spec.md section 6's
// WHISPER_SERVER__PORT example applies that scheme to a "server:port" key;
// no current canonical key contains ":").
type source map[string]string

// canonicalKeys lists every key bind() understands. Keys present in a source
// but absent from this list are logged at debug and otherwise ignored,
// matching spec.md 4.1's "unknown keys are ignored but logged at debug level".
var canonicalKeys = map[string]bool{
	"host":          true,
	"port":          true,
	"model":         true,
	"language":      true,
	"timeoutSec":    true,
	"maxConcurrent": true,
	"queueWaitSec":  true,
	"maxFileSizeMb": true,
	"device":        true,
	"logLevel":      true,
	"logFile":       true,
	"logMaxBytes":   true,
}

// snakeCaseRewrite maps the snake_case spellings spec.md 4.1 calls out by
// name (model_name, timeout_seconds, max_file_size_mb) plus the rest of the
// canonical set's snake_case equivalents, to their canonical camelCase keys.
// Applied to file-source keys before they are merged.
var snakeCaseRewrite = map[string]string{
	"model_name":         "model",
	"model":              "model",
	"timeout_seconds":    "timeoutSec",
	"timeout":            "timeoutSec",
	"max_concurrent":     "maxConcurrent",
	"queue_wait_seconds": "queueWaitSec",
	"queue_wait_sec":     "queueWaitSec",
	"max_file_size_mb":   "maxFileSizeMb",
	"log_level":          "logLevel",
	"log_file":           "logFile",
	"log_max_bytes":      "logMaxBytes",
	"host":               "host",
	"port":               "port",
	"language":           "language",
	"device":             "device",
}

// rewriteKey normalizes a file-source key to its canonical form, logging
// (at debug) keys that fall outside both the rewrite table and the
// canonical set.
func rewriteKey(raw string, log logger.Logger) string {
	if canon, ok := snakeCaseRewrite[raw]; ok {
		return canon
	}
	if canonicalKeys[raw] {
		return raw
	}
	log.Debug("config: ignoring unknown key %q", raw)
	return ""
}

// merge combines sources in increasing precedence: later sources override
// earlier ones key-by-key. The lowest-precedence source (defaults) must
// populate every canonical key so bind() never sees a hole.
func merge(sources ...source) source {
	out := make(source, len(canonicalKeys))
	for _, s := range sources {
		for k, v := range s {
			if !canonicalKeys[k] {
				continue
			}
			out[k] = v
		}
	}
	return out
}
