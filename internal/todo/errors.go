package todo

import "errors"

var (
	ErrStoreNil = errors.New("task store is nil")
	ErrPrefsNil = errors.New("preferences store is nil")
	ErrPoolNil  = errors.New("worker pool is nil")
	ErrIDSpace  = errors.New("task id space exhausted")
)
