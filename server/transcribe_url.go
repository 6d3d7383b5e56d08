// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/AshBuk/whisper-server/audio"
	"github.com/AshBuk/whisper-server/internal/apierr"
)

type urlTranscribeRequest struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Model    string `json:"model"`
	Language string `json:"language"`
}

// urlFetchClient has no per-request timeout of its own; the timeout is
// applied via the request's context so it tracks requestTimeoutSec+10s
// without constructing a new client per call.
var urlFetchClient = &http.Client{}

// handleTranscribeURL implements POST /v1/audio/transcriptions/url per
// spec.md 4.6: fetch with a bounded timeout, mirror a non-2xx upstream
// status verbatim, enforce the size cap both from Content-Length and
// mid-stream.
func (s *Server) handleTranscribeURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, multipartFormOverhead)
	var req urlTranscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.log, apierr.Wrap(apierr.KindInvalidRequest, "invalid_request_error", "malformed JSON body", err))
		return
	}
	if req.URL == "" {
		writeError(w, s.log, apierr.New(apierr.KindInvalidRequest, "invalid_request_error", "url field is required").WithParam("url"))
		return
	}
	parsed, err := url.Parse(req.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		writeError(w, s.log, apierr.New(apierr.KindInvalidRequest, "invalid_request_error", "url must be an absolute http(s) URL").WithParam("url"))
		return
	}

	fetchTimeout := time.Duration(s.app.Config.RequestTimeoutSec)*time.Second + urlFetchExtraTimeout
	fetchCtx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, req.URL, nil)
	if err != nil {
		writeError(w, s.log, apierr.Wrap(apierr.KindInvalidRequest, "invalid_request_error", "invalid url", err).WithParam("url"))
		return
	}

	resp, err := urlFetchClient.Do(httpReq)
	if err != nil {
		writeError(w, s.log, apierr.Wrap(apierr.KindUpstreamFetch, "url_fetch_failed", "failed to fetch audio from url", err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		writeError(w, s.log, &apierr.Error{
			Kind:           apierr.KindUpstreamFetch,
			Code:           "url_fetch_failed",
			Message:        fmt.Sprintf("upstream returned HTTP %d", resp.StatusCode),
			UpstreamStatus: resp.StatusCode,
		})
		return
	}

	maxBytes := s.app.Config.MaxFileSizeBytes()
	if resp.ContentLength > 0 && resp.ContentLength > maxBytes {
		writeError(w, s.log, apierr.New(apierr.KindFileTooLarge, "file_too_large", "remote file exceeds the configured size limit"))
		return
	}

	filename := req.Filename
	if filename == "" {
		filename = path.Base(parsed.Path)
	}
	if err := checkExtension(filename); err != nil {
		writeError(w, s.log, err)
		return
	}

	tempPath, cleanup, err := audio.SaveUpload(s.app.TempDir, resp.Body, maxBytes)
	if err != nil {
		if errors.Is(err, audio.ErrTooLarge) {
			writeError(w, s.log, apierr.New(apierr.KindFileTooLarge, "file_too_large", "remote file exceeds the configured size limit"))
		} else {
			writeError(w, s.log, apierr.Wrap(apierr.KindInternal, "", "failed to fetch remote audio", err))
		}
		return
	}
	defer cleanup()

	s.transcribeAndRespond(w, r.Context(), tempPath, req.Language)
}
