// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AshBuk/whisper-server/audio"
	"github.com/AshBuk/whisper-server/internal/apierr"
)

type base64TranscribeRequest struct {
	Audio    string `json:"audio"`
	Filename string `json:"filename"`
	Model    string `json:"model"`
	Language string `json:"language"`
}

// jsonBodyOverhead accounts for base64's ~33% size inflation over the raw
// audio bytes, so the streamed JSON read isn't clipped before the decoded
// payload check below can reject an oversize upload with the precise code.
const jsonBodyOverhead = 2

// handleTranscribeBase64 implements POST /v1/audio/transcriptions/base64
// per spec.md 4.6: decode the body, reject bad base64 with invalid_base64,
// enforce the same size cap on the decoded length.
func (s *Server) handleTranscribeBase64(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	maxBytes := s.app.Config.MaxFileSizeBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes*jsonBodyOverhead+multipartFormOverhead)

	var req base64TranscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.log, apierr.Wrap(apierr.KindInvalidRequest, "invalid_request_error", "malformed JSON body", err))
		return
	}
	if req.Audio == "" {
		writeError(w, s.log, apierr.New(apierr.KindInvalidRequest, "missing_file", "audio field is required").WithParam("audio"))
		return
	}

	decoded, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		writeError(w, s.log, apierr.Wrap(apierr.KindInvalidRequest, "invalid_base64", "audio is not valid base64", err).WithParam("audio"))
		return
	}
	if int64(len(decoded)) > maxBytes {
		writeError(w, s.log, apierr.New(apierr.KindFileTooLarge, "file_too_large", "decoded audio exceeds the configured size limit"))
		return
	}

	filename := req.Filename
	if filename == "" {
		filename = "audio.wav"
	}
	if err := checkExtension(filename); err != nil {
		writeError(w, s.log, err)
		return
	}

	tempPath, cleanup, err := audio.SaveUpload(s.app.TempDir, bytes.NewReader(decoded), maxBytes)
	if err != nil {
		if errors.Is(err, audio.ErrTooLarge) {
			writeError(w, s.log, apierr.New(apierr.KindFileTooLarge, "file_too_large", "decoded audio exceeds the configured size limit"))
		} else {
			writeError(w, s.log, apierr.Wrap(apierr.KindInternal, "", "failed to save decoded audio", err))
		}
		return
	}
	defer cleanup()

	s.transcribeAndRespond(w, r.Context(), tempPath, req.Language)
}
