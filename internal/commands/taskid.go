package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"todo/internal/exitcode"
	"todo/internal/service"
)

// ErrTaskIDRequired indicates no task ID was provided.
var ErrTaskIDRequired = errors.New("task id required")

// ParseTaskID parses the task ID from the first positional argument.
// Extra arguments are rejected so "todo rm 1 2" does not silently drop one.
func ParseTaskID(args []string) (int32, error) {
	if len(args) == 0 {
		return 0, ErrTaskIDRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected argument: %s", args[1])
	}
	raw := strings.TrimPrefix(args[0], "#")
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 || n > math.MaxInt32 {
		return 0, fmt.Errorf("invalid task id: %s", args[0])
	}
	return int32(n), nil
}

// parseTaskIDOrReport parses args and prints a user error on failure.
func parseTaskIDOrReport(args []string, errOut io.Writer) (int32, bool) {
	id, err := ParseTaskID(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 0, false
	}
	return id, true
}

// reportTaskError prints err for an operation on task id and returns the exit code.
func reportTaskError(errOut io.Writer, id int32, err error) int {
	if errors.Is(err, service.ErrNotFound) {
		fmt.Fprintf(errOut, "error: task not found: %d\n", id)
		return exitcode.UserError
	}
	return reportError(errOut, err)
}

// reportError prints err and returns the exit code for it.
func reportError(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, service.ErrNotFound):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case service.IsStorage(err):
		fmt.Fprintf(errOut, "error: storage error: %v\n", err)
		return exitcode.BackendError
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(errOut, "error: cancelled")
		return exitcode.BackendError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}
