//go:build cgo

// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	whispercpp "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/go-audio/wav"

	"github.com/AshBuk/whisper-server/config"
	"github.com/AshBuk/whisper-server/internal/logger"
	"github.com/AshBuk/whisper-server/internal/utils"
)

// cgoEngine wraps a loaded whisper.cpp model. The model is loaded lazily on
// the first Transcribe call (via once), matching the teacher's pattern of
// loading at construction but deferred here so the whisper.cpp model load
// happens on first use rather than when the engine is constructed.
type cgoEngine struct {
	modelPath string
	device    config.Device
	log       logger.Logger

	once    sync.Once
	loadErr error
	model   whispercpp.Model

	tracker *goroutineTracker
}

// NewEngine loads (lazily) the whisper.cpp model at modelPath. device is a
// hint logged at load time: the high-level whisper.cpp Go binding selects
// its compute backend from how libwhisper itself was built, not from a
// per-call flag, so "gpu" here means "prefer a GPU-enabled libwhisper build"
// rather than a runtime switch this package can force.
func NewEngine(modelPath string, device config.Device) (Engine, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("whisper model not found: %s", modelPath)
	}
	return &cgoEngine{
		modelPath: modelPath,
		device:    device,
		log:       logger.NewDefaultLogger(logger.WarningLevel),
		tracker:   newGoroutineTracker(),
	}, nil
}

// NewEngineWithLogger is NewEngine with an explicit logger, used by the
// server wiring so engine load/close messages land in the same sink as
// everything else.
func NewEngineWithLogger(modelPath string, device config.Device, log logger.Logger) (Engine, error) {
	e, err := NewEngine(modelPath, device)
	if err != nil {
		return nil, err
	}
	e.(*cgoEngine).log = log
	return e, nil
}

func (e *cgoEngine) ensureLoaded() error {
	e.once.Do(func() {
		e.log.Info("loading whisper model from %s (device=%s)", e.modelPath, e.device)
		m, err := whispercpp.New(e.modelPath)
		if err != nil {
			e.loadErr = fmt.Errorf("failed to load whisper model: %w", err)
			return
		}
		e.model = m
	})
	return e.loadErr
}

// Transcribe loads the model on first use, then runs inference in a
// tracked goroutine so a caller whose ctx expires gets its error back
// immediately without leaving the in-flight whisper.cpp call unaccounted
// for; Close drains the tracker before freeing the model.
func (e *cgoEngine) Transcribe(ctx context.Context, req Request) (Result, error) {
	if err := e.ensureLoaded(); err != nil {
		return Result{}, err
	}

	type outcome struct {
		res Result
		err error
	}
	ch := make(chan outcome, 1)

	e.tracker.spawn(func() {
		res, err := e.transcribeSync(req)
		ch <- outcome{res: res, err: err}
	})

	select {
	case o := <-ch:
		return o.res, o.err
	case <-ctx.Done():
		return Result{}, fmt.Errorf("transcription cancelled: %w", ctx.Err())
	}
}

func (e *cgoEngine) transcribeSync(req Request) (Result, error) {
	samples, err := loadPCMFloat32(req.AudioPath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load audio data: %w", err)
	}

	wctx, err := e.model.NewContext()
	if err != nil {
		return Result{}, fmt.Errorf("failed to create whisper context: %w", err)
	}

	lang := strings.TrimSpace(req.Language)
	if lang == "" {
		lang = "auto"
	}
	if err := wctx.SetLanguage(lang); err != nil {
		return Result{}, fmt.Errorf("failed to set language %q: %w", lang, err)
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return Result{}, fmt.Errorf("failed to process audio: %w", err)
	}

	var transcript strings.Builder
	var segments []Segment
	for id := 0; ; id++ {
		seg, err := wctx.NextSegment()
		if err != nil {
			break
		}
		text := utils.SanitizeTranscript(seg.Text)
		segments = append(segments, Segment{
			ID:    id,
			Start: seg.Start.Seconds(),
			End:   seg.End.Seconds(),
			Text:  text,
		})
		transcript.WriteString(text)
		transcript.WriteString(" ")
	}

	return Result{
		Text:     utils.SanitizeTranscript(transcript.String()),
		Language: lang,
		Segments: segments,
	}, nil
}

// loadPCMFloat32 decodes a canonical WAV file into whisper.cpp's expected
// float32 PCM samples normalized to [-1.0, 1.0].
func loadPCMFloat32(audioPath string) ([]float32, error) {
	clean := filepath.Clean(audioPath)
	if strings.Contains(clean, "..") {
		return nil, fmt.Errorf("invalid audio file path")
	}
	// #nosec G304 -- path is the canonical temp WAV the audio normalizer
	// produced for this request, not raw user input.
	file, err := os.Open(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer func() { _ = file.Close() }()

	decoder := wav.NewDecoder(file)
	if decoder == nil {
		return nil, fmt.Errorf("failed to create WAV decoder")
	}
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read audio buffer: %w", err)
	}

	samples := make([]float32, buf.NumFrames())
	for i := 0; i < buf.NumFrames(); i++ {
		samples[i] = float32(buf.Data[i]) / 32768.0
	}
	return samples, nil
}

// Close waits briefly for in-flight transcriptions to finish, then frees
// the model. A timeout here means the server is shutting down with a
// transcription wedged; the model is closed anyway since the process is
// exiting regardless.
func (e *cgoEngine) Close() error {
	if !e.tracker.drain(10 * time.Second) {
		e.log.Warning("closing whisper model with transcriptions still in flight")
	}
	if e.model != nil {
		return e.model.Close()
	}
	return nil
}
