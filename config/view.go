// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package config

// View is the nested, file-shaped rendering of EffectiveConfig served by the
// /config and /v1/config endpoints (spec.md section 6). EffectiveConfig
// itself stays flat for the layered-merge machinery in resolve.go/flags.go;
// View exists only to echo config the way the original WhisperAPI config
// file sections it (Server/Whisper), since clients asserting on
// Server.Port or Whisper.ModelName expect that nesting, not a flat struct.
type View struct {
	Server  ServerView  `json:"Server"`
	Whisper WhisperView `json:"Whisper"`
}

// ServerView holds the HTTP-facing settings.
type ServerView struct {
	Host              string `json:"Host"`
	Port              int    `json:"Port"`
	RequestTimeoutSec int    `json:"RequestTimeoutSec"`
	MaxConcurrent     int    `json:"MaxConcurrent"`
	QueueWaitSec      int    `json:"QueueWaitSec"`
	MaxFileSizeMB     int64  `json:"MaxFileSizeMB"`
	LogLevel          string `json:"LogLevel"`
}

// WhisperView holds the transcription-engine settings.
type WhisperView struct {
	ModelName  string `json:"ModelName"`
	Language   string `json:"Language"`
	Device     string `json:"Device"`
	SampleRate int    `json:"SampleRate"`
}

// View renders c in the nested Server/Whisper shape.
func (c EffectiveConfig) View() View {
	return View{
		Server: ServerView{
			Host:              c.Host,
			Port:              c.Port,
			RequestTimeoutSec: c.RequestTimeoutSec,
			MaxConcurrent:     c.MaxConcurrent,
			QueueWaitSec:      c.QueueWaitSec,
			MaxFileSizeMB:     c.MaxFileSizeMB,
			LogLevel:          c.LogLevel,
		},
		Whisper: WhisperView{
			ModelName:  c.ModelID,
			Language:   c.Language,
			Device:     string(c.Device),
			SampleRate: c.SampleRate,
		},
	}
}
