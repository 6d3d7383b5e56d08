// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package audio

import (
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/AshBuk/whisper-server/internal/logger"
)

func testLogger() logger.Logger {
	return logger.NewDefaultLogger(logger.ErrorLevel)
}

func writeTestWav(t *testing.T, path string, sampleRate, channels, bitDepth int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav fixture: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{SampleRate: sampleRate, NumChannels: channels},
		Data:   []int{0, 100, -100, 200, -200},
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write wav fixture: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close wav encoder: %v", err)
	}
}

func TestBuildArgs(t *testing.T) {
	n := NewNormalizer(t.TempDir(), "ffmpeg", testLogger())
	args := n.buildArgs("/tmp/in.mp3", "/tmp/out.wav")

	want := []string{"-y", "-i", "/tmp/in.mp3", "-ar", "16000", "-ac", "1", "-acodec", "pcm_s16le", "-f", "wav", "/tmp/out.wav"}
	if len(args) != len(want) {
		t.Fatalf("buildArgs len = %d, want %d: %v", len(args), len(want), args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("buildArgs[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestValidateCanonicalWavAccepts(t *testing.T) {
	n := NewNormalizer(t.TempDir(), "ffmpeg", testLogger())
	path := filepath.Join(t.TempDir(), "good.wav")
	writeTestWav(t, path, CanonicalSampleRate, CanonicalChannels, CanonicalBitDepth)

	if err := n.validateCanonicalWav(path); err != nil {
		t.Errorf("validateCanonicalWav rejected a canonical file: %v", err)
	}
}

func TestValidateCanonicalWavRejectsWrongSampleRate(t *testing.T) {
	n := NewNormalizer(t.TempDir(), "ffmpeg", testLogger())
	path := filepath.Join(t.TempDir(), "wrong-rate.wav")
	writeTestWav(t, path, 44100, CanonicalChannels, CanonicalBitDepth)

	if err := n.validateCanonicalWav(path); err == nil {
		t.Error("validateCanonicalWav should reject a non-16kHz file")
	}
}

func TestValidateCanonicalWavRejectsWrongChannels(t *testing.T) {
	n := NewNormalizer(t.TempDir(), "ffmpeg", testLogger())
	path := filepath.Join(t.TempDir(), "wrong-chans.wav")
	writeTestWav(t, path, CanonicalSampleRate, 2, CanonicalBitDepth)

	if err := n.validateCanonicalWav(path); err == nil {
		t.Error("validateCanonicalWav should reject a stereo file")
	}
}

func TestCreateTempWavPathIsUniqueAndInsideDir(t *testing.T) {
	dir := t.TempDir()
	n := NewNormalizer(dir, "ffmpeg", testLogger())

	p1, err := n.createTempWavPath()
	if err != nil {
		t.Fatalf("createTempWavPath: %v", err)
	}
	p2, err := n.createTempWavPath()
	if err != nil {
		t.Fatalf("createTempWavPath: %v", err)
	}
	if p1 == p2 {
		t.Error("createTempWavPath should return a unique path each call")
	}
	if filepath.Dir(p1) != filepath.Clean(dir) {
		t.Errorf("path %q escaped base dir %q", p1, dir)
	}
}
