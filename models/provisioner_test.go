// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package models

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/AshBuk/whisper-server/internal/logger"
	"github.com/AshBuk/whisper-server/internal/testutils"
)

func testLogger() logger.Logger {
	return logger.NewDefaultLogger(logger.ErrorLevel)
}

func TestPathForUsesCanonicalID(t *testing.T) {
	p := NewProvisioner(t.TempDir(), testLogger())
	got := p.PathFor("whisper-tiny")
	want := filepath.Join(p.dir, "whisper-tiny.bin")
	if got != want {
		t.Errorf("PathFor = %q, want %q", got, want)
	}
}

func TestEnsureRejectsUnknownModel(t *testing.T) {
	p := NewProvisioner(t.TempDir(), testLogger())
	if _, err := p.Ensure(context.Background(), "not-a-model"); err == nil {
		t.Error("Ensure should reject an unrecognized model id")
	}
}

func TestEnsureSkipsDownloadWhenFileAlreadyValid(t *testing.T) {
	dir := t.TempDir()
	p := NewProvisioner(dir, testLogger())
	path := p.PathFor("whisper-tiny")
	body := strings.Repeat("x", int(minSizeFor("whisper-tiny"))+1024)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("seed fixture: %v", err)
	}

	var hit int32
	p.httpClient = &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		atomic.AddInt32(&hit, 1)
		return nil, context.DeadlineExceeded
	})}

	got, err := p.Ensure(context.Background(), "tiny")
	if err != nil {
		t.Fatalf("Ensure error: %v", err)
	}
	if got != path {
		t.Errorf("Ensure returned %q, want %q", got, path)
	}
	if atomic.LoadInt32(&hit) != 0 {
		t.Error("Ensure must not hit the network for an already-valid model file")
	}
}

func TestEnsureDownloadsAndCoalescesConcurrentCallers(t *testing.T) {
	minSize := int(minSizeFor("whisper-tiny"))
	payload := strings.Repeat("m", minSize+2048)

	var requests int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	dir := t.TempDir()
	p := NewProvisioner(dir, testLogger())
	p.httpClient = srv.Client()
	// Point the download at the test server instead of Hugging Face for
	// the duration of this test.
	restoreBase := overrideBaseURLForTest(srv.URL + "/")
	defer restoreBase()

	var wg sync.WaitGroup
	paths := make([]string, 8)
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			paths[i], errs[i] = p.Ensure(context.Background(), "whisper-tiny")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d: Ensure error: %v", i, err)
		}
	}
	want := p.PathFor("whisper-tiny")
	for i, got := range paths {
		if got != want {
			t.Errorf("caller %d: path = %q, want %q", i, got, want)
		}
	}
	if n := atomic.LoadInt32(&requests); n != 1 {
		t.Errorf("server received %d requests, want exactly 1 (singleflight coalescing)", n)
	}
}

func TestEnsureLogsInstallOnSuccessfulDownload(t *testing.T) {
	minSize := int(minSizeFor("whisper-tiny"))
	payload := strings.Repeat("m", minSize+2048)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	mockLog := testutils.NewMockLogger()
	p := NewProvisioner(t.TempDir(), mockLog)
	p.httpClient = srv.Client()
	restoreBase := overrideBaseURLForTest(srv.URL + "/")
	defer restoreBase()

	if _, err := p.Ensure(context.Background(), "whisper-tiny"); err != nil {
		t.Fatalf("Ensure error: %v", err)
	}

	var sawInstalled bool
	for _, m := range mockLog.GetMessages() {
		if strings.Contains(m, "installed at") {
			sawInstalled = true
			break
		}
	}
	if !sawInstalled {
		t.Errorf("expected an install log message, got %v", mockLog.GetMessages())
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// overrideBaseURLForTest points downloadURL at a local test server for the
// duration of a test and returns a func restoring the real Hugging Face URL.
func overrideBaseURLForTest(url string) func() {
	orig := baseURL
	baseURL = url
	return func() { baseURL = orig }
}
