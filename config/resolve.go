// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"strconv"

	"github.com/AshBuk/whisper-server/internal/logger"
)

// Resolve merges, in increasing precedence, built-in defaults, an
// auto-discovered or explicitly named config file, WHISPER_* environment
// variables, and CLI flags, then binds the flattened result to an
// EffectiveConfig and runs it through ValidateConfig. args is the process's
// argument slice excluding argv[0] (os.Args[1:]).
func Resolve(args []string, log logger.Logger) (*EffectiveConfig, *Flags, error) {
	fs, flags := NewFlagSet("whisper-server")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	fileSrc, err := resolveFileSource(flags, log)
	if err != nil {
		return nil, nil, err
	}

	merged := merge(
		defaultsSource(),
		fileSrc,
		envSource(Environ()),
		flagsSource(fs),
	)

	cfg, err := bind(merged)
	if err != nil {
		return nil, nil, err
	}

	if err := ValidateConfig(cfg); err != nil {
		log.Warning("%s", err.Error())
	}

	return cfg, flags, nil
}

// resolveFileSource reads an explicit --config path fatally (a typo'd path
// the operator named should not be silently ignored) but treats a missing
// auto-discovered file as simply absent, matching spec.md section 6.
func resolveFileSource(flags *Flags, log logger.Logger) (source, error) {
	path := flags.ConfigPath
	if path == "" {
		path = discoverConfigFile()
		if path == "" {
			return source{}, nil
		}
	}
	src, err := fileSource(path, log)
	if err != nil {
		if flags.ConfigPath != "" {
			return nil, fmt.Errorf("explicit config file: %w", err)
		}
		log.Warning("ignoring auto-discovered config file %s: %s", path, err.Error())
		return source{}, nil
	}
	return src, nil
}

// bind parses a fully merged flat source into a typed EffectiveConfig.
// Every canonical key must already be present (defaultsSource guarantees
// this), so a parse failure here means a layer supplied a malformed value,
// not a missing one.
func bind(m source) (*EffectiveConfig, error) {
	port, err := strconv.Atoi(m["port"])
	if err != nil {
		return nil, fmt.Errorf("invalid port %q: %w", m["port"], err)
	}
	timeoutSec, err := strconv.Atoi(m["timeoutSec"])
	if err != nil {
		return nil, fmt.Errorf("invalid timeoutSec %q: %w", m["timeoutSec"], err)
	}
	maxConcurrent, err := strconv.Atoi(m["maxConcurrent"])
	if err != nil {
		return nil, fmt.Errorf("invalid maxConcurrent %q: %w", m["maxConcurrent"], err)
	}
	queueWaitSec, err := strconv.Atoi(m["queueWaitSec"])
	if err != nil {
		return nil, fmt.Errorf("invalid queueWaitSec %q: %w", m["queueWaitSec"], err)
	}
	maxFileSizeMB, err := strconv.ParseInt(m["maxFileSizeMb"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid maxFileSizeMb %q: %w", m["maxFileSizeMb"], err)
	}
	logMaxBytes, err := strconv.ParseInt(m["logMaxBytes"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid logMaxBytes %q: %w", m["logMaxBytes"], err)
	}

	return &EffectiveConfig{
		Host:              m["host"],
		Port:              port,
		RequestTimeoutSec: timeoutSec,
		ModelID:           m["model"],
		Language:          m["language"],
		MaxConcurrent:     maxConcurrent,
		QueueWaitSec:      queueWaitSec,
		SampleRate:        16000,
		MaxFileSizeMB:     maxFileSizeMB,
		Device:            Device(m["device"]),
		LogLevel:          m["logLevel"],
		LogFilePath:       m["logFile"],
		LogMaxBytes:       logMaxBytes,
	}, nil
}
