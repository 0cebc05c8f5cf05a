package model

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures so callers can decide retry policy.
// Validation errors must never be retried, external service errors may
// be retried by the caller, storage errors indicate the write was
// rolled back.
var (
	ErrTagValidation      = goerr.NewTag("validation")
	ErrTagExternalService = goerr.NewTag("external_service")
	ErrTagStorage         = goerr.NewTag("storage")
)

var (
	ErrMemoryNotFound = goerr.New("memory not found")

	ErrEmptyChatLog    = goerr.New("chat_log is required and cannot be empty", goerr.T(ErrTagValidation))
	ErrEmptyText       = goerr.New("text is required and cannot be empty", goerr.T(ErrTagValidation))
	ErrEmptyHeading    = goerr.New("heading is required", goerr.T(ErrTagValidation))
	ErrEmptySummary    = goerr.New("summary is required", goerr.T(ErrTagValidation))
	ErrBadEmbeddingDim = goerr.New("embedding dimension mismatch", goerr.T(ErrTagValidation))
	ErrBadLimit        = goerr.New("limit must be positive", goerr.T(ErrTagValidation))
)
