package service

import "context"

// Service is the operation set consumed by the presentation layer.
// Commands never talk to the store or the remote source directly.
type Service interface {
	// ListTasks returns all tasks, most recently created first.
	ListTasks(ctx context.Context) ([]Task, error)

	// GetTask returns the task with the given ID or ErrNotFound.
	GetTask(ctx context.Context, id int32) (Task, error)

	// CreateTask assigns the next ID and stores a new open task.
	CreateTask(ctx context.Context, title, description string) (Task, error)

	// ToggleCompleted flips the completion state of a task.
	ToggleCompleted(ctx context.Context, id int32) (Task, error)

	// EditTask replaces title and description, leaving everything else untouched.
	EditTask(ctx context.Context, id int32, title, description string) (Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, id int32) error

	// Observe returns a live view of all tasks, most recently created first.
	// The view stops when ctx is done.
	Observe(ctx context.Context) (Observer, error)

	// Status reports the seed flag, the next ID and the task count.
	Status(ctx context.Context) (Status, error)
}

// Observer is a live, ordered view of the task list.
type Observer interface {
	// Snapshot returns the ordered tasks as of the most recently processed commit.
	Snapshot() []Task

	// Changes delivers change events. It is closed when the view stops.
	Changes() <-chan Change
}

// RemoteSource fetches the seed list. Implementations make a single attempt
// and report any failure as an error wrapping ErrFetchUnavailable.
type RemoteSource interface {
	FetchInitialTasks(ctx context.Context) (RemoteList, error)
}
