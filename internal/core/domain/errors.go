package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Extraction Errors.

	// ErrUnsupportedFormat indicates the file extension has no extractor.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrEmptyContent indicates extraction produced only whitespace.
	ErrEmptyContent = errors.New("empty content")

	// ErrEmptyInput indicates there is no text to chunk or embed.
	ErrEmptyInput = errors.New("empty input")

	// Embedding Errors.

	// ErrDimensionMismatch indicates a vector length differs from EmbeddingDimensions.
	// Such vectors must never be persisted or searched with.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrNoEmbeddingServiceAvailable indicates every embedding strategy failed
	// or none was configured for the request.
	ErrNoEmbeddingServiceAvailable = errors.New("no embedding service available")

	// Remote Service Errors.

	// ErrAuthenticationFailed indicates the remote service rejected the credentials (401/403).
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrRateLimited indicates the remote service returned 429.
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates the client-side deadline expired.
	ErrTimeout = errors.New("timeout")

	// ErrUnreachable indicates the remote host could not be reached.
	ErrUnreachable = errors.New("service unreachable")

	// ErrInvalidResponse indicates the remote payload was malformed or empty.
	ErrInvalidResponse = errors.New("invalid response")

	// Agent Errors.

	// ErrAgentUnavailable indicates the selected chat agent cannot serve the request.
	ErrAgentUnavailable = errors.New("agent unavailable")

	// Storage Errors.

	// ErrPersistenceFailure indicates a store write failed.
	ErrPersistenceFailure = errors.New("persistence failure")
)
