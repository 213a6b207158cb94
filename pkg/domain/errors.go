package domain

import "errors"

// ErrModelNotFound is returned when a model ID cannot be found in the store.
var ErrModelNotFound = errors.New("model not found")

// ErrKernelClosed is returned by kernel sessions used after Close.
var ErrKernelClosed = errors.New("kernel session closed")

// ErrMissingModelID is returned for generation requests without a model ID.
var ErrMissingModelID = errors.New("model ID is required")
