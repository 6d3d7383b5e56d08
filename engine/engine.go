// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package engine adapts the whisper.cpp inference library to a
// context-aware transcription interface. The real implementation
// (engine_cgo.go) requires cgo; a stub (engine_stub.go) takes its place in
// non-cgo builds and fails every Transcribe call with a clear error instead
// of refusing to compile.
package engine

import (
	"context"
	"errors"

	"github.com/AshBuk/whisper-server/config"
)

// ErrEngineUnavailable is returned by every Transcribe call in a build
// without cgo support; Close there is a no-op.
var ErrEngineUnavailable = errors.New("transcription engine unavailable: built without cgo")

// Request describes one transcription job.
type Request struct {
	// AudioPath names a canonical 16kHz mono 16-bit PCM WAV file on disk.
	AudioPath string
	// Language is a language hint, or "" / "auto" to let the model detect it.
	Language string
}

// Segment is one contiguous transcribed utterance span, matching
// spec.md's TranscriptionJob.segments shape.
type Segment struct {
	ID    int
	Start float64
	End   float64
	Text  string
}

// Result is the outcome of a successful transcription. Segments is in
// non-decreasing Start order; Text is the already-trimmed concatenation of
// every segment's text.
type Result struct {
	Text     string
	Language string
	Segments []Segment
}

// Engine loads one Whisper model and serves transcription requests against
// it. Implementations must be safe for concurrent use by multiple callers;
// Transcribe must honor ctx cancellation even though the underlying
// whisper.cpp call is not itself cancellable.
type Engine interface {
	Transcribe(ctx context.Context, req Request) (Result, error)
	// Close releases the underlying model. It blocks briefly for any
	// transcriptions already in flight before freeing native memory.
	Close() error
}

// Factory builds an Engine for a model file, selecting a compute backend.
type Factory func(modelPath string, device config.Device) (Engine, error)
