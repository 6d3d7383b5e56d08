// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/AshBuk/whisper-server/config"
	"github.com/AshBuk/whisper-server/internal/logger"
)

type stubResolver struct {
	calls int32
	path  string
	err   error
}

func (r *stubResolver) Ensure(ctx context.Context, modelID string) (string, error) {
	atomic.AddInt32(&r.calls, 1)
	return r.path, r.err
}

type fakeEngine struct{ closed bool }

func (f *fakeEngine) Transcribe(ctx context.Context, req Request) (Result, error) {
	return Result{Text: "ok"}, nil
}
func (f *fakeEngine) Close() error { f.closed = true; return nil }

func testLoggerM() logger.Logger { return logger.NewDefaultLogger(logger.ErrorLevel) }

func TestManagerGetLoadsOnce(t *testing.T) {
	resolver := &stubResolver{path: "/models/whisper-tiny.bin"}
	var factoryCalls int32
	factory := func(path string, device config.Device) (Engine, error) {
		atomic.AddInt32(&factoryCalls, 1)
		return &fakeEngine{}, nil
	}
	m := NewManager(resolver, factory, "whisper-tiny", config.DeviceAuto, testLoggerM())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Get(context.Background()); err != nil {
				t.Errorf("Get error: %v", err)
			}
		}()
	}
	wg.Wait()

	if atomic.LoadInt32(&factoryCalls) != 1 {
		t.Errorf("factory called %d times, want 1", factoryCalls)
	}
	if atomic.LoadInt32(&resolver.calls) != 1 {
		t.Errorf("resolver called %d times, want 1", resolver.calls)
	}
}

func TestManagerGetRetriesAfterFailure(t *testing.T) {
	resolver := &stubResolver{err: errors.New("network down")}
	factory := func(path string, device config.Device) (Engine, error) {
		return &fakeEngine{}, nil
	}
	m := NewManager(resolver, factory, "whisper-tiny", config.DeviceAuto, testLoggerM())

	if _, err := m.Get(context.Background()); err == nil {
		t.Fatal("expected first Get to fail")
	}

	resolver.err = nil
	resolver.path = "/models/whisper-tiny.bin"
	if _, err := m.Get(context.Background()); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
}

func TestManagerCloseReleasesEngine(t *testing.T) {
	resolver := &stubResolver{path: "/models/whisper-tiny.bin"}
	fe := &fakeEngine{}
	factory := func(path string, device config.Device) (Engine, error) { return fe, nil }
	m := NewManager(resolver, factory, "whisper-tiny", config.DeviceAuto, testLoggerM())

	if _, err := m.Get(context.Background()); err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if !fe.closed {
		t.Error("expected Close to release the underlying engine")
	}
}
