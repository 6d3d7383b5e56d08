// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package models

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/AshBuk/whisper-server/internal/logger"
	"github.com/AshBuk/whisper-server/internal/utils"
	"github.com/AshBuk/whisper-server/modelid"
)

// progressLogInterval is how much of a download must land before another
// progress line is logged, matching the "every ~25MiB" cadence in spec.md's
// provisioning notes without flooding the log for a 3GB large-v3 download.
const progressLogInterval = 25 * 1024 * 1024

func errUnknownModel(id string) error {
	return fmt.Errorf("no download source for model id: %s", id)
}

// Provisioner downloads and installs ggml model files into a single
// directory, coalescing concurrent requests for the same model id via
// singleflight so N simultaneous first-requests for the same cold model
// trigger exactly one download.
type Provisioner struct {
	dir        string
	log        logger.Logger
	httpClient *http.Client
	group      singleflight.Group
}

// NewProvisioner creates a Provisioner rooted at dir. dir itself is created
// on the first download, not here.
func NewProvisioner(dir string, log logger.Logger) *Provisioner {
	return &Provisioner{
		dir:        dir,
		log:        log,
		httpClient: &http.Client{Timeout: 30 * time.Minute},
	}
}

// PathFor returns the on-disk path a normalized model id would occupy,
// without checking whether it has been downloaded yet.
func (p *Provisioner) PathFor(id string) string {
	return filepath.Join(p.dir, id+".bin")
}

// Ensure resolves modelID to a canonical id, and returns the path to its
// ggml file on disk, downloading it first if necessary. Concurrent Ensure
// calls for the same id share one download.
func (p *Provisioner) Ensure(ctx context.Context, modelID string) (string, error) {
	id, err := modelid.Normalize(modelID)
	if err != nil {
		return "", err
	}

	path := p.PathFor(id)
	if validExisting(path, minSizeFor(id)) {
		return path, nil
	}

	result, err, shared := p.group.Do(id, func() (interface{}, error) {
		return path, p.download(ctx, id, path)
	})
	if err != nil {
		return "", err
	}
	if shared {
		p.log.Debug("model %s: reused an in-flight download from another request", id)
	}
	return result.(string), nil
}

// validExisting reports whether path already contains a plausible model
// file, so repeated Ensure calls for a warm model never touch the network.
func validExisting(path string, minSize int64) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Size() >= minSize
}

// download fetches id's ggml file to a temp path in the same directory and
// atomically renames it into place, matching the teacher's
// whisper/providers.ModelDownloader.Download temp-then-rename pattern.
func (p *Provisioner) download(ctx context.Context, id, destPath string) error {
	url, err := downloadURL(id)
	if err != nil {
		return err
	}

	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create model directory %s: %w", dir, err)
	}

	if err := utils.CheckDiskSpace(destPath); err != nil {
		return fmt.Errorf("model %s: %w", id, err)
	}

	tmpPath := destPath + ".tmp"
	p.log.Info("downloading model %s from %s", id, url)

	if err := p.downloadToFile(ctx, id, url, tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	info, err := os.Stat(tmpPath)
	if err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to stat downloaded model %s: %w", id, err)
	}
	if minSize := minSizeFor(id); info.Size() < minSize {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("downloaded model %s is too small (%d bytes), expected at least %d bytes", id, info.Size(), minSize)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to install model %s: %w", id, err)
	}
	p.log.Info("model %s installed at %s (%d bytes)", id, destPath, info.Size())
	return nil
}

func (p *Provisioner) downloadToFile(ctx context.Context, id, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for model %s: %w", id, err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download model %s: %w", id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download model %s: HTTP %d", id, resp.StatusCode)
	}

	// #nosec G304 -- path is derived from the canonical model id, not from
	// unsanitized user input.
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create model file: %w", err)
	}
	defer func() { _ = out.Close() }()

	reader := &progressLoggingReader{
		reader: resp.Body,
		total:  resp.ContentLength,
		id:     id,
		log:    p.log,
	}
	if _, err := io.Copy(out, reader); err != nil {
		return fmt.Errorf("failed to write model file for %s: %w", id, err)
	}
	return nil
}

// progressLoggingReader wraps a download body and logs progress every
// progressLogInterval bytes, non-blockingly (a log call, not a channel
// send), following the teacher's progressReader in
// whisper/model_manager.go but reporting through the logger instead of a
// caller-supplied callback.
type progressLoggingReader struct {
	reader     io.Reader
	total      int64
	downloaded int64
	lastLogged int64
	id         string
	log        logger.Logger
}

func (r *progressLoggingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.downloaded += int64(n)
	if r.downloaded-r.lastLogged >= progressLogInterval {
		r.lastLogged = r.downloaded
		if r.total > 0 {
			r.log.Info("model %s: downloaded %d/%d bytes (%.1f%%)", r.id, r.downloaded, r.total, float64(r.downloaded)/float64(r.total)*100)
		} else {
			r.log.Info("model %s: downloaded %d bytes", r.id, r.downloaded)
		}
	}
	return n, err
}
