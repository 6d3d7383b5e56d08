// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package engine

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/AshBuk/whisper-server/config"
	"github.com/AshBuk/whisper-server/internal/apierr"
	"github.com/AshBuk/whisper-server/internal/logger"
)

// ModelResolver resolves a model id to a local file path, downloading it if
// necessary. models.Provisioner satisfies this; the narrow interface keeps
// this package from depending on models' HTTP/download internals.
type ModelResolver interface {
	Ensure(ctx context.Context, modelID string) (string, error)
}

// Manager holds at most one loaded Engine, matching spec.md's LoadedEngine:
// lazy, serialized initialization on first use, publish-once/read-many
// after that. Mirrors the teacher's ModelManager.GetActiveModelPath /
// SwitchModel split (resolve path, then load), but collapsed into one
// coalesced load path since this server never switches models at runtime.
type Manager struct {
	resolver ModelResolver
	factory  Factory
	device   config.Device
	log      logger.Logger
	modelID  string

	group singleflight.Group

	mu     sync.RWMutex
	engine Engine
}

// NewManager creates a Manager that will lazily load modelID via resolver
// and factory on first Get, using device as the compute backend hint.
func NewManager(resolver ModelResolver, factory Factory, modelID string, device config.Device, log logger.Logger) *Manager {
	return &Manager{
		resolver: resolver,
		factory:  factory,
		device:   device,
		modelID:  modelID,
		log:      log,
	}
}

// Get returns the shared Engine, loading it on the first call. Concurrent
// first callers coalesce into one load (singleflight); a failed load is not
// cached, so model_not_ready is retryable on the next request as spec.md
// 4.3 requires.
func (m *Manager) Get(ctx context.Context) (Engine, error) {
	if e := m.cached(); e != nil {
		return e, nil
	}

	v, err, _ := m.group.Do("load", func() (interface{}, error) {
		if e := m.cached(); e != nil {
			return e, nil
		}

		path, err := m.resolver.Ensure(ctx, m.modelID)
		if err != nil {
			return nil, apierr.Wrap(apierr.KindModelNotReady, "model_not_ready", "configured model is not available", err)
		}

		m.log.Info("loading transcription engine for model %s from %s (device=%s)", m.modelID, path, m.device)
		eng, err := m.factory(path, m.device)
		if err != nil {
			return nil, apierr.Wrap(apierr.KindModelNotReady, "model_not_ready", "failed to load transcription engine", err)
		}

		m.mu.Lock()
		m.engine = eng
		m.mu.Unlock()
		return eng, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Engine), nil
}

func (m *Manager) cached() Engine {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.engine
}

// Close releases the loaded engine, if any. Safe to call even if Get was
// never called.
func (m *Manager) Close() error {
	m.mu.Lock()
	e := m.engine
	m.engine = nil
	m.mu.Unlock()
	if e == nil {
		return nil
	}
	return e.Close()
}
