// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package config

import "flag"

// Flags holds the CLI flag set recognized by the server binary. The minimum
// set spec.md 4.1 names is --host, --port, --model, --language, --timeout,
// --config, --download; this port also exposes the admission/logging knobs
// as a reasonable superset, following the teacher's cmd/daemon/cli.go style
// of a dedicated flag.FlagSet with a buffered usage writer.
type Flags struct {
	Host          string
	Port          int
	Model         string
	Language      string
	TimeoutSec    int
	MaxConcurrent int
	QueueWaitSec  int
	MaxFileSizeMB int64
	Device        string
	LogLevel      string
	LogFile       string
	ConfigPath    string
	Download      string

	fs *flag.FlagSet
}

// NewFlagSet registers every recognized flag on a ContinueOnError FlagSet so
// callers control how parse errors and --help are reported, matching the
// teacher's cmd/daemon/main.go parseDaemonOptions pattern.
func NewFlagSet(name string) (*flag.FlagSet, *Flags) {
	f := &Flags{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	fs.StringVar(&f.Host, "host", "", "Bind host (overrides config/env/default)")
	fs.IntVar(&f.Port, "port", 0, "Bind port (overrides config/env/default)")
	fs.StringVar(&f.Model, "model", "", "Model id to serve, e.g. whisper-base")
	fs.StringVar(&f.Language, "language", "", "Transcription language, or 'auto'")
	fs.IntVar(&f.TimeoutSec, "timeout", 0, "Per-request timeout in seconds")
	fs.IntVar(&f.MaxConcurrent, "max-concurrent", 0, "Maximum in-flight transcriptions")
	fs.IntVar(&f.QueueWaitSec, "queue-wait", 0, "Maximum admission queue wait in seconds")
	fs.Int64Var(&f.MaxFileSizeMB, "max-file-size-mb", 0, "Maximum upload size in MiB")
	fs.StringVar(&f.Device, "device", "", "Compute device: auto, cpu, or gpu")
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level: debug, info, warning, error")
	fs.StringVar(&f.LogFile, "log-file", "", "Path to the log file")
	fs.StringVar(&f.ConfigPath, "config", "", "Path to an explicit config file")
	fs.StringVar(&f.Download, "download", "", "Download the named model and exit, skipping server startup")

	f.fs = fs
	return fs, f
}

// flagsSource converts only the flags the caller actually set (via
// fs.Visit, not fs.VisitAll) into a source, so unset flags don't clobber
// lower-precedence layers with zero values.
func flagsSource(fs *flag.FlagSet) source {
	out := source{}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "host":
			out["host"] = fl.Value.String()
		case "port":
			out["port"] = fl.Value.String()
		case "model":
			out["model"] = fl.Value.String()
		case "language":
			out["language"] = fl.Value.String()
		case "timeout":
			out["timeoutSec"] = fl.Value.String()
		case "max-concurrent":
			out["maxConcurrent"] = fl.Value.String()
		case "queue-wait":
			out["queueWaitSec"] = fl.Value.String()
		case "max-file-size-mb":
			out["maxFileSizeMb"] = fl.Value.String()
		case "device":
			out["device"] = fl.Value.String()
		case "log-level":
			out["logLevel"] = fl.Value.String()
		case "log-file":
			out["logFile"] = fl.Value.String()
		}
	})
	return out
}
