package config

import "errors"

// ErrAuth marks failures that need the user to fix credentials (run: todo login).
var ErrAuth = errors.New("auth error")
