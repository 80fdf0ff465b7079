package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file extension or provider with no handler.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrDecode indicates file bytes could not be decoded as text.
	ErrDecode = errors.New("cannot decode text")

	// ErrLLMUnavailable indicates the text-generation service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrEmptyCorpus indicates an index was requested over zero documents.
	ErrEmptyCorpus = errors.New("empty corpus")

	// Precondition errors, checked in this order before any external call.

	// ErrMissingCredential indicates no API credential was supplied.
	ErrMissingCredential = errors.New("missing API credential")

	// ErrEmptyTaxonomy indicates the risk taxonomy group is empty or blank.
	ErrEmptyTaxonomy = errors.New("risk taxonomy document is empty")

	// ErrEmptyTarget indicates the target document group is empty or blank.
	ErrEmptyTarget = errors.New("target document is empty")
)
