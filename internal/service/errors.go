package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("task not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrFetchUnavailable = errors.New("remote task list unavailable")
)

// StorageError reports a failed persistence operation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsStorage reports whether err is or wraps a *StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
