// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	wavdecode "github.com/go-audio/wav"
	"github.com/google/uuid"

	"github.com/AshBuk/whisper-server/internal/logger"
)

// CanonicalSampleRate, CanonicalChannels, and CanonicalBitDepth describe the
// PCM WAV format every transcription engine request is normalized to.
const (
	CanonicalSampleRate = 16000
	CanonicalChannels   = 1
	CanonicalBitDepth   = 16
)

// Normalizer transcodes an arbitrary uploaded audio file into the canonical
// 16kHz mono 16-bit PCM WAV format the engine expects, via ffmpeg. It is
// the ingestion-side counterpart of the teacher's FFmpegRecorder: the
// teacher shells out to ffmpeg to capture from a microphone, this shells
// out to ffmpeg to decode/resample an arbitrary input file.
type Normalizer struct {
	ffmpegPath string
	tempDir    string
	log        logger.Logger
	timeout    time.Duration
}

// NewNormalizer creates a Normalizer that writes working files under
// tempDir (created if missing), invoking ffmpegPath (normally just
// "ffmpeg", resolved via PATH).
func NewNormalizer(tempDir, ffmpegPath string, log logger.Logger) *Normalizer {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Normalizer{
		ffmpegPath: ffmpegPath,
		tempDir:    tempDir,
		log:        log,
		timeout:    2 * time.Minute,
	}
}

// Normalize decodes/transcodes inputPath (any format ffmpeg understands)
// into a fresh canonical WAV file and returns its path. The caller must
// call the returned cleanup func once done with the file.
func (n *Normalizer) Normalize(ctx context.Context, inputPath string) (outputPath string, cleanup func(), err error) {
	outPath, err := n.createTempWavPath()
	if err != nil {
		return "", nil, err
	}
	cleanup = func() { _ = os.Remove(outPath) }

	runCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	args := n.buildArgs(inputPath, outPath)
	// #nosec G204 -- ffmpegPath is operator-configured, not user input; args
	// reference only internally generated temp paths and fixed flags.
	cmd := exec.CommandContext(runCtx, n.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if runErr := cmd.Run(); runErr != nil {
		cleanup()
		if runCtx.Err() == context.DeadlineExceeded {
			return "", nil, fmt.Errorf("audio normalization timed out after %s", n.timeout)
		}
		return "", nil, fmt.Errorf("ffmpeg failed: %w: %s", runErr, firstLines(stderr.String(), 4))
	}

	if err := n.validateCanonicalWav(outPath); err != nil {
		cleanup()
		return "", nil, err
	}

	return outPath, cleanup, nil
}

// buildArgs mirrors FFmpegRecorder.buildCommandArgs's style (-y, -ar, -ac,
// -acodec) but drives ffmpeg's decode side (-i <file>) instead of its ALSA
// capture side (-f alsa -i <device>).
func (n *Normalizer) buildArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-ar", fmt.Sprintf("%d", CanonicalSampleRate),
		"-ac", fmt.Sprintf("%d", CanonicalChannels),
		"-acodec", "pcm_s16le",
		"-f", "wav",
		outputPath,
	}
}

// validateCanonicalWav confirms ffmpeg actually produced the format the
// engine expects, catching a silently mistranscoded file rather than
// passing bad PCM on to whisper.cpp.
func (n *Normalizer) validateCanonicalWav(path string) error {
	// #nosec G304 -- path is this Normalizer's own freshly created temp file.
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open normalized audio: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := wavdecode.NewDecoder(f)
	if !dec.IsValidFile() {
		return fmt.Errorf("ffmpeg output is not a valid WAV file")
	}
	if int(dec.SampleRate) != CanonicalSampleRate {
		return fmt.Errorf("normalized audio has sample rate %d, want %d", dec.SampleRate, CanonicalSampleRate)
	}
	if int(dec.NumChans) != CanonicalChannels {
		return fmt.Errorf("normalized audio has %d channels, want %d", dec.NumChans, CanonicalChannels)
	}
	if int(dec.BitDepth) != CanonicalBitDepth {
		return fmt.Errorf("normalized audio has bit depth %d, want %d", dec.BitDepth, CanonicalBitDepth)
	}
	return nil
}

// createTempWavPath reserves a unique path under tempDir, following the
// teacher's TempFileManager.CreateTempWav: pre-create the file to claim the
// name, confirm the final path stays inside tempDir. The caller owns
// cleanup via Normalize's returned cleanup func.
func (n *Normalizer) createTempWavPath() (string, error) {
	dir := n.tempDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("normalized-%s.wav", uuid.NewString()))
	cleaned := filepath.Clean(path)
	if filepath.Dir(cleaned) != filepath.Clean(dir) {
		return "", fmt.Errorf("unsafe temp file path outside base dir")
	}

	// #nosec G304 -- cleaned is built from a generated UUID under a
	// controlled base directory, not from user input.
	f, err := os.OpenFile(cleaned, os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to reserve temp file: %w", err)
	}
	_ = f.Close()

	return cleaned, nil
}

func firstLines(s string, n int) string {
	lines := []rune(s)
	count := 0
	for i, r := range lines {
		if r == '\n' {
			count++
			if count == n {
				return string(lines[:i])
			}
		}
	}
	return s
}
