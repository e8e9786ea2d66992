package store

import "errors"

var (
	// ErrStorageRead means the persisted collection could not be read or decoded
	ErrStorageRead = errors.New("failed to load tasks")
	// ErrStorageWrite means the collection could not be persisted
	ErrStorageWrite = errors.New("failed to save tasks")
	// ErrValidation means the input was rejected before any change was made
	ErrValidation = errors.New("invalid task")
)
