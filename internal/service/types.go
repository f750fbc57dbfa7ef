// Package service defines the task types and the operation set shared by the
// task manager, its storage backends and the presentation layer.
package service

import "time"

// LocalOwnerID is the owner attributed to tasks created on this device.
const LocalOwnerID int64 = 42

// Task represents a single to-do record.
type Task struct {
	ID          int32
	OwnerID     int64
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
}

// RemoteTask is one record of the remote seed list.
type RemoteTask struct {
	ID        int32  `json:"id"`
	Todo      string `json:"todo"`
	Completed bool   `json:"completed"`
	UserID    int64  `json:"userId"`
}

// RemoteList is the remote seed list. Only Todos and Total are consumed.
type RemoteList struct {
	Todos []RemoteTask `json:"todos"`
	Total int          `json:"total"`
	Skip  int          `json:"skip"`
	Limit int          `json:"limit"`
}

// Status summarizes the persisted service state.
type Status struct {
	Seeded bool
	NextID int
	Count  int
}

// ChangeKind identifies the kind of change reported by an Observer.
type ChangeKind int

const (
	ChangeInsert ChangeKind = iota + 1
	ChangeUpdate
	ChangeDelete
	ChangeMove
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeInsert:
		return "insert"
	case ChangeUpdate:
		return "update"
	case ChangeDelete:
		return "delete"
	case ChangeMove:
		return "move"
	default:
		return "unknown"
	}
}

// Change describes one change to an ordered task view.
// OldIndex is -1 for inserts; NewIndex is -1 for deletes.
type Change struct {
	Kind     ChangeKind
	TaskID   int32
	OldIndex int
	NewIndex int
	Task     Task // zero for deletes
}
