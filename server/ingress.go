// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package server

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/AshBuk/whisper-server/admission"
	"github.com/AshBuk/whisper-server/engine"
	"github.com/AshBuk/whisper-server/internal/apierr"
)

// allowedExtensions is the closed set of input containers spec.md 4.4
// names; checked case-insensitively by file-name extension.
var allowedExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
}

func checkExtension(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return apierr.New(apierr.KindUnsupportedMedia, "unsupported_media_type", "unsupported file extension: "+ext)
	}
	return nil
}

// admissionError translates admission.Controller.Acquire's error into the
// typed pipeline error C7 expects. Per spec.md 4.5, every way Acquire can
// fail — the queue-wait timeout elapsing (ErrBusy) or the caller
// disconnecting/its own deadline expiring while still queued (ctx.Err()) —
// is a busy-server condition from the admission gate's point of view, not a
// job-level timeout, so both map to 429.
func admissionError(err error) error {
	if errors.Is(err, admission.ErrBusy) {
		return apierr.New(apierr.KindRateLimited, "concurrency_limit", "server is at capacity, try again later")
	}
	return apierr.Wrap(apierr.KindRateLimited, "concurrency_limit", "request cancelled while waiting for admission", err)
}

// deadlineError maps a cancelled/expired job context into the typed
// timeout kind, distinguishing it from an opaque failure inside the stage
// that was running when the deadline hit.
func deadlineError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return apierr.Wrap(apierr.KindTimeout, "timeout", "request exceeded its deadline or was cancelled", err)
	}
	return nil
}

// normalizeError maps an audio.Normalizer.Normalize failure to its HTTP
// kind: a deadline hit during decode wins over a generic decode failure.
func normalizeError(ctx context.Context, err error) error {
	if de := deadlineError(ctx, err); de != nil {
		return de
	}
	return apierr.Wrap(apierr.KindUnsupportedMedia, "audio_processing_failed", "failed to decode/normalize audio", err)
}

// transcribeError maps an engine.Engine.Transcribe failure to its HTTP
// kind: deadline first, then engine-unavailable as a model-readiness
// failure, then an opaque internal failure, per spec.md 4.3's three
// failure modes.
func transcribeError(ctx context.Context, err error) error {
	if de := deadlineError(ctx, err); de != nil {
		return de
	}
	if errors.Is(err, engine.ErrEngineUnavailable) {
		return apierr.Wrap(apierr.KindModelNotReady, "model_not_ready", "transcription engine is unavailable", err)
	}
	if _, ok := apierr.AsError(err); ok {
		return err
	}
	return apierr.Wrap(apierr.KindInternal, "", "transcription failed", err)
}

// writeMethodNotAllowed is used by the transcription entry points, which
// only accept POST.
func writeMethodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Allow", http.MethodPost)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
