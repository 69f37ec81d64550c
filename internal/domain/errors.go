package domain

import "errors"

// Store and transport failures. Callers match them with errors.Is.
var (
	// ErrUnauthorized means the provided credential did not match the stored one.
	ErrUnauthorized = errors.New("unauthorized: incorrect password")
	// ErrInvalidDocument means the candidate document has no array-typed categories.
	ErrInvalidDocument = errors.New("invalid data structure")
	// ErrStorageUnavailable wraps persistence I/O failures.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrTransport wraps network-level failures reaching the store or an upstream service.
	ErrTransport = errors.New("transport failure")
	// ErrParse means an import file is neither a document nor a recognizable bookmark file.
	ErrParse = errors.New("failed to parse import file")
)

// Edit failures.
var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrLinkNotFound       = errors.New("link not found")
	ErrEmptyTitle         = errors.New("title must not be empty")
	ErrInvalidURL         = errors.New("url must be absolute")
	ErrCredentialTooShort = errors.New("password must be at least 4 characters")
	ErrCredentialTooLong  = errors.New("password must be at most 72 bytes")
)
