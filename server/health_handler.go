// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package server

import "net/http"

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// handleHealth always returns 200 while the process accepts connections,
// per spec.md section 6.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: Version})
}
