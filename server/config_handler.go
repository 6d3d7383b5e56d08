// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package server

import "net/http"

// handleConfig serves the effective config as nested Server/Whisper JSON;
// there are no secrets in the MVP config so nothing is redacted, per
// spec.md section 6.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Config.View())
}
