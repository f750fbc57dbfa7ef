// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task ID).
	UserError = 1

	// AuthError indicates a config or Google login problem.
	AuthError = 2

	// BackendError indicates a storage or network error.
	BackendError = 3
)
