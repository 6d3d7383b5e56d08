// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package server

import (
	"encoding/json"
	"net/http"

	"github.com/AshBuk/whisper-server/engine"
	"github.com/AshBuk/whisper-server/internal/apierr"
	"github.com/AshBuk/whisper-server/internal/logger"
)

// transcriptionResponse is the success envelope shape from spec.md 4.7.
type transcriptionResponse struct {
	Text     string    `json:"text"`
	Duration float64   `json:"duration"`
	Language string    `json:"language"`
	Segments []segment `json:"segments"`
}

type segment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param,omitempty"`
	Code    string `json:"code,omitempty"`
}

// statusAndType maps an apierr.Kind to the HTTP status and envelope type
// from spec.md 4.7's condition table.
func statusAndType(k apierr.Kind) (int, string) {
	switch k {
	case apierr.KindInvalidRequest:
		return http.StatusBadRequest, "invalid_request_error"
	case apierr.KindUnsupportedMedia:
		return http.StatusUnsupportedMediaType, "invalid_request_error"
	case apierr.KindFileTooLarge:
		return http.StatusRequestEntityTooLarge, "invalid_request_error"
	case apierr.KindRateLimited:
		return http.StatusTooManyRequests, "rate_limit_exceeded"
	case apierr.KindTimeout:
		return http.StatusRequestTimeout, "request_timeout"
	case apierr.KindModelNotReady:
		return http.StatusServiceUnavailable, "server_error"
	case apierr.KindNotFound:
		return http.StatusNotFound, "invalid_request_error"
	case apierr.KindUpstreamFetch:
		return http.StatusBadGateway, "invalid_request_error"
	default:
		return http.StatusInternalServerError, "server_error"
	}
}

// writeError is the single place (C7) that turns a typed pipeline error
// into an HTTP response, per spec.md 4.7/7 ("components return typed error
// kinds, not strings; C7 is the single place that maps kinds to HTTP").
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	ae, ok := apierr.AsError(err)
	if !ok {
		ae = apierr.Wrap(apierr.KindInternal, "", "internal server error", err)
	}

	status, typ := statusAndType(ae.Kind)
	if ae.Kind == apierr.KindUpstreamFetch && ae.UpstreamStatus != 0 {
		status = ae.UpstreamStatus
	}

	message := ae.Message
	if ae.Kind == apierr.KindInternal {
		log.Error("internal error: %v", ae.Err)
		if message == "" {
			message = "internal server error"
		}
	}

	writeJSON(w, status, errorEnvelope{Error: errorBody{
		Message: message,
		Type:    typ,
		Param:   ae.Param,
		Code:    ae.Code,
	}})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// toResponseSegments maps the engine's segments to the wire shape and
// reports the job duration as the last segment's end time, per spec.md 3's
// TranscriptionJob invariant ("duration = last.end if any segment exists
// else 0.0").
func toResponseSegments(segs []engine.Segment) ([]segment, float64) {
	out := make([]segment, len(segs))
	duration := 0.0
	for i, s := range segs {
		out[i] = segment{ID: s.ID, Start: s.Start, End: s.End, Text: s.Text}
		if s.End > duration {
			duration = s.End
		}
	}
	return out, duration
}
