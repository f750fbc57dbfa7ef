// Package observe turns successive task snapshots into typed change events
// and fans them out to live views.
package observe

import (
	"slices"

	"todo/internal/service"
)

// SortKey orders a view.
type SortKey int

const (
	// CreatedDesc orders by creation time, newest first. Ties fall back to ID, highest first.
	CreatedDesc SortKey = iota
	// CreatedAsc orders by creation time, oldest first.
	CreatedAsc
	// ByID orders by ascending ID.
	ByID
)

// Sort returns a sorted copy of tasks.
func Sort(tasks []service.Task, key SortKey) []service.Task {
	out := slices.Clone(tasks)
	switch key {
	case CreatedAsc:
		slices.SortStableFunc(out, func(a, b service.Task) int {
			if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
				return c
			}
			return int(a.ID) - int(b.ID)
		})
	case ByID:
		slices.SortStableFunc(out, func(a, b service.Task) int {
			return int(a.ID) - int(b.ID)
		})
	default:
		slices.SortStableFunc(out, func(a, b service.Task) int {
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}
			return int(b.ID) - int(a.ID)
		})
	}
	return out
}

// Diff computes the changes that turn old into cur. Both slices must already
// be in view order. Deletes carry old indexes, inserts new ones. A task whose
// position among the surviving tasks changed is reported as a move, otherwise
// a task with different field values is reported as an update.
func Diff(old, cur []service.Task) []service.Change {
	oldIdx := make(map[int32]int, len(old))
	for i, t := range old {
		oldIdx[t.ID] = i
	}
	curIdx := make(map[int32]int, len(cur))
	for i, t := range cur {
		curIdx[t.ID] = i
	}

	var changes []service.Change
	oldRank := make(map[int32]int, len(old))
	rank := 0
	for i, t := range old {
		if _, ok := curIdx[t.ID]; !ok {
			changes = append(changes, service.Change{
				Kind: service.ChangeDelete, TaskID: t.ID, OldIndex: i, NewIndex: -1,
			})
			continue
		}
		oldRank[t.ID] = rank
		rank++
	}

	rank = 0
	for i, t := range cur {
		j, ok := oldIdx[t.ID]
		if !ok {
			changes = append(changes, service.Change{
				Kind: service.ChangeInsert, TaskID: t.ID, OldIndex: -1, NewIndex: i, Task: t,
			})
			continue
		}
		switch {
		case oldRank[t.ID] != rank:
			changes = append(changes, service.Change{
				Kind: service.ChangeMove, TaskID: t.ID, OldIndex: j, NewIndex: i, Task: t,
			})
		case !sameTask(old[j], t):
			changes = append(changes, service.Change{
				Kind: service.ChangeUpdate, TaskID: t.ID, OldIndex: j, NewIndex: i, Task: t,
			})
		}
		rank++
	}
	return changes
}

func sameTask(a, b service.Task) bool {
	return a.ID == b.ID &&
		a.OwnerID == b.OwnerID &&
		a.Title == b.Title &&
		a.Description == b.Description &&
		a.Completed == b.Completed &&
		a.CreatedAt.Equal(b.CreatedAt)
}
