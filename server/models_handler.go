// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package server

import (
	"net/http"
	"strings"

	"github.com/AshBuk/whisper-server/internal/apierr"
	"github.com/AshBuk/whisper-server/modelid"
)

type modelEntry struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	OwnedBy string `json:"owned_by"`
}

type modelList struct {
	Object string       `json:"object"`
	Data   []modelEntry `json:"data"`
}

func toModelEntry(id string) modelEntry {
	return modelEntry{ID: id, Object: "model", OwnedBy: "openai"}
}

// handleModelsList enumerates the closed model id set from the single
// modelid table (spec.md's open question: "use one closed set for both the
// /v1/models enumeration and the admission/normalization path").
func (s *Server) handleModelsList(w http.ResponseWriter, r *http.Request) {
	ids := modelid.List()
	entries := make([]modelEntry, len(ids))
	for i, id := range ids {
		entries[i] = toModelEntry(id)
	}
	writeJSON(w, http.StatusOK, modelList{Object: "list", Data: entries})
}

// handleModelsGet serves a single model entry, or 404 model_not_found for
// anything outside the closed set (spec.md's model-id closure property).
// Unlike the admission/transcription path, this does not accept aliases:
// spec.md's closure scenario requires 200 iff id is itself a canonical
// member of the set, so "base" 404s here even though it normalizes to
// "whisper-base" everywhere else.
func (s *Server) handleModelsGet(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/models/")
	if id == "" || strings.Contains(id, "/") || !modelid.IsCanonical(id) {
		writeError(w, s.log, apierr.New(apierr.KindNotFound, "model_not_found", "model not found"))
		return
	}
	writeJSON(w, http.StatusOK, toModelEntry(strings.ToLower(id)))
}
