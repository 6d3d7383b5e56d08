// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package server exposes the OpenAI-compatible HTTP surface: health,
// config and model enumeration, and the three transcription ingress
// shapes. Routing and graceful shutdown are grounded on the teacher's
// websocket/server.go (http.NewServeMux, a named-constant timeout block,
// and context.WithTimeout-bounded Shutdown); the transcription handlers
// are grounded on the hivewarden-apis-edge transcribe handler referenced
// in SPEC_FULL.md (streamed multipart-to-tempfile via http.MaxBytesReader,
// deferred cleanup on every exit path).
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/AshBuk/whisper-server/admission"
	"github.com/AshBuk/whisper-server/audio"
	"github.com/AshBuk/whisper-server/config"
	"github.com/AshBuk/whisper-server/engine"
	"github.com/AshBuk/whisper-server/internal/logger"
	"github.com/AshBuk/whisper-server/models"
)

// HTTP server timeout constants, matching the teacher's websocket/server.go
// const block in spirit: a fixed read/write/idle timeout plus a bounded
// shutdown grace period, rather than ad-hoc values scattered per call site.
const (
	serverReadTimeout  = 15 * time.Second
	serverWriteTimeout = 0 // streamed responses are rare here; bounded per-request via context instead
	serverIdleTimeout  = 60 * time.Second
	shutdownTimeout    = 5 * time.Second

	// urlFetchExtraTimeout is added to the configured request timeout for
	// the URL-ingress shape, per spec.md 4.6/5 ("a per-request timeout
	// >= requestTimeoutSec + 10s").
	urlFetchExtraTimeout = 10 * time.Second
)

// Version is the build version reported by GET /health. Overridable at
// link time (-ldflags "-X ...Version=...") the way the teacher's cmd
// binaries stamp a version string; "dev" otherwise.
var Version = "dev"

// App bundles the process-wide collaborators every handler needs: the
// resolved config, the model provisioner, the single loaded engine, the
// admission gate, and the audio normalizer. Spec.md's Design Notes call
// this out explicitly ("bundled as an explicit application context passed
// by reference to each handler; no ambient/thread-local state").
type App struct {
	Config      *config.EffectiveConfig
	Provisioner *models.Provisioner
	EngineMgr   *engine.Manager
	Admission   *admission.Controller
	Normalizer  *audio.Normalizer
	TempDir     string
	Log         logger.Logger
}

// Server owns the HTTP listener built from an App's routes.
type Server struct {
	app    *App
	http   *http.Server
	wg     sync.WaitGroup
	log    logger.Logger
	addr   string
	listen bool
}

// NewServer builds a Server ready to serve app's routes on cfg.Host:cfg.Port.
func NewServer(app *App) *Server {
	return &Server{
		app:  app,
		log:  app.Log,
		addr: fmt.Sprintf("%s:%d", app.Config.Host, app.Config.Port),
	}
}

// Routes builds the mux, in the same "one HandleFunc per concern, mux
// assembled in Start" style as the teacher's WebSocketServer.Start.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/config", s.handleConfig)
	mux.HandleFunc("/config", s.handleConfig)
	mux.HandleFunc("/v1/models", s.handleModelsList)
	mux.HandleFunc("/v1/models/", s.handleModelsGet)
	mux.HandleFunc("/v1/audio/transcriptions", s.handleTranscribeMultipart)
	mux.HandleFunc("/v1/audio/transcriptions/base64", s.handleTranscribeBase64)
	mux.HandleFunc("/v1/audio/transcriptions/url", s.handleTranscribeURL)

	return withCORS(mux)
}

// Start begins serving in a background goroutine, tracked so Stop can wait
// for it to exit cleanly.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:         s.addr,
		Handler:      s.Routes(),
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	s.wg.Add(1)
	s.listen = true
	go func() {
		defer s.wg.Done()
		s.log.Info("whisper-server listening on %s", s.addr)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("HTTP server error: %v", err)
		}
	}()
	return nil
}

// Stop gracefully shuts the server down, then releases the loaded engine.
func (s *Server) Stop() {
	if s.http == nil || !s.listen {
		return
	}
	s.log.Info("stopping whisper-server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		s.log.Error("error shutting down HTTP server: %v", err)
	}
	s.wg.Wait()
	s.listen = false

	if err := s.app.EngineMgr.Close(); err != nil {
		s.log.Error("error closing transcription engine: %v", err)
	}
}

// withCORS allows any origin/method/header, per spec.md section 6 ("MVP").
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
