// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/AshBuk/whisper-server/engine"
)

// transcribeAndRespond runs the common tail shared by all three ingress
// shapes (spec.md 4.6: "hand off to C4 -> C3 -> C7"): admit, normalize,
// transcribe, shape the response. tempInputPath is deleted by the caller's
// own cleanup; this only manages the normalized-audio intermediate.
func (s *Server) transcribeAndRespond(w http.ResponseWriter, ctx context.Context, tempInputPath, language string) {
	if strings.TrimSpace(language) == "" {
		language = s.app.Config.Language
	}

	ticket, err := s.app.Admission.Acquire(ctx)
	if err != nil {
		writeError(w, s.log, admissionError(err))
		return
	}
	defer ticket.Release()

	deadline := time.Duration(s.app.Config.RequestTimeoutSec) * time.Second
	jobCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	normalizedPath, cleanup, err := s.app.Normalizer.Normalize(jobCtx, tempInputPath)
	if err != nil {
		writeError(w, s.log, normalizeError(jobCtx, err))
		return
	}
	defer cleanup()

	eng, err := s.app.EngineMgr.Get(jobCtx)
	if err != nil {
		writeError(w, s.log, err)
		return
	}

	result, err := eng.Transcribe(jobCtx, engine.Request{AudioPath: normalizedPath, Language: language})
	if err != nil {
		writeError(w, s.log, transcribeError(jobCtx, err))
		return
	}

	segs, duration := toResponseSegments(result.Segments)
	writeJSON(w, http.StatusOK, transcriptionResponse{
		Text:     strings.TrimSpace(result.Text),
		Duration: duration,
		Language: result.Language,
		Segments: segs,
	})
}
