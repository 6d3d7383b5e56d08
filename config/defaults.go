// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package config

// defaultsSource is the lowest-precedence layer. Grounded on the teacher's
// config/loaders.SetDefaultConfig, which sets every field up front so later
// layers only ever override, never fill holes.
func defaultsSource() source {
	return source{
		"host":          "0.0.0.0",
		"port":          "8000",
		"model":         "whisper-base",
		"language":      "auto",
		"timeoutSec":    "120",
		"maxConcurrent": "2",
		"queueWaitSec":  "10",
		"maxFileSizeMb": "100",
		"device":        "auto",
		"logLevel":      "info",
		"logFile":       "logs/whisper-server.log",
		"logMaxBytes":   "10485760", // 10 MiB
	}
}
