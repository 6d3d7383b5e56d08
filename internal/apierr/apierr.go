// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package apierr defines the closed set of failure kinds the transcription
// pipeline can return. Every component (C2-C6) returns one of these instead
// of a bare error string, so the response shaper (C7) maps kind -> HTTP
// status by a single switch instead of string-matching error text.
package apierr

import "fmt"

// Kind identifies the category of failure a component observed.
type Kind int

const (
	// KindInternal is an opaque, unexpected failure (engine crash, I/O error).
	KindInternal Kind = iota
	// KindInvalidRequest covers malformed input: missing fields, bad base64,
	// wrong content-type, unknown model id referenced by a request.
	KindInvalidRequest
	// KindUnsupportedMedia covers bad file extensions and decode failures.
	KindUnsupportedMedia
	// KindFileTooLarge covers payloads exceeding the configured size cap.
	KindFileTooLarge
	// KindRateLimited covers admission refusals (concurrency cap, queue wait expired).
	KindRateLimited
	// KindTimeout covers deadline expiry and client cancellation.
	KindTimeout
	// KindModelNotReady covers a missing or invalid model file at use time.
	KindModelNotReady
	// KindUpstreamFetch covers a non-2xx or network failure fetching a remote URL.
	KindUpstreamFetch
	// KindNotFound covers lookups against the closed model-id set that miss.
	KindNotFound
)

// Error is the typed error every pipeline stage returns on failure.
type Error struct {
	Kind Kind
	// Message is a short, safe-to-expose summary. Internal failures must
	// never put raw engine/library text here; log the detail instead.
	Message string
	// Param names the offending request field, when applicable.
	Param string
	// Code is the machine-readable code from spec.md's error table
	// (e.g. "missing_file", "file_too_large", "model_not_ready").
	Code string
	// UpstreamStatus carries the verbatim HTTP status from a failed URL
	// fetch, used only when Kind == KindUpstreamFetch.
	UpstreamStatus int
	// Err wraps the underlying cause for logging; never rendered to clients.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error with the given kind, code, and message.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap builds an Error that carries an underlying cause for logging.
func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// WithParam returns a copy of e with Param set, for field-specific 400s.
func (e *Error) WithParam(param string) *Error {
	cp := *e
	cp.Param = param
	return &cp
}

// AsError extracts *Error from err via errors.As semantics without importing
// the errors package at every call site.
func AsError(err error) (*Error, bool) {
	for err != nil {
		if ae, ok := err.(*Error); ok {
			return ae, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return nil, false
}
