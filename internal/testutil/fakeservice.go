// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"todo/internal/service"
)

// BaseTime is the creation time of the first task added with AddTask.
// Later tasks are one minute newer each.
var BaseTime = time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int32
	seeded bool
	closed bool

	// ObserveChanges are delivered by the view returned from Observe, after
	// which its channel is closed.
	ObserveChanges []service.Change

	// Error injection for testing
	ListTasksErr  error
	GetTaskErr    error
	CreateTaskErr error
	ToggleErr     error
	EditTaskErr   error
	DeleteTaskErr error
	ObserveErr    error
	StatusErr     error
}

// NewFakeService creates an empty, seeded FakeService.
func NewFakeService() *FakeService {
	return &FakeService{nextID: 1, seeded: true}
}

// AddTask adds a task with the next ID and returns it.
func (f *FakeService) AddTask(title string, completed bool) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addLocked(title, "", completed, 7)
}

func (f *FakeService) addLocked(title, desc string, completed bool, owner int64) service.Task {
	t := service.Task{
		ID:          f.nextID,
		OwnerID:     owner,
		Title:       title,
		Description: desc,
		Completed:   completed,
		CreatedAt:   BaseTime.Add(time.Duration(f.nextID-1) * time.Minute),
	}
	f.nextID++
	f.tasks = append(f.tasks, t)
	return t
}

// Tasks returns the stored tasks in insertion order.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.Task(nil), f.tasks...)
}

// Closed reports whether Close was called.
func (f *FakeService) Closed() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.closed
}

// Close implements io.Closer.
func (f *FakeService) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.sortedLocked(), nil
}

func (f *FakeService) sortedLocked() []service.Task {
	out := append([]service.Task{}, f.tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, id int32) (service.Task, error) {
	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	i, err := f.indexLocked(id)
	if err != nil {
		return service.Task{}, err
	}
	return f.tasks[i], nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, title, description string) (service.Task, error) {
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addLocked(title, description, false, service.LocalOwnerID), nil
}

// ToggleCompleted implements service.Service.
func (f *FakeService) ToggleCompleted(ctx context.Context, id int32) (service.Task, error) {
	if f.ToggleErr != nil {
		return service.Task{}, f.ToggleErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i, err := f.indexLocked(id)
	if err != nil {
		return service.Task{}, err
	}
	f.tasks[i].Completed = !f.tasks[i].Completed
	return f.tasks[i], nil
}

// EditTask implements service.Service.
func (f *FakeService) EditTask(ctx context.Context, id int32, title, description string) (service.Task, error) {
	if f.EditTaskErr != nil {
		return service.Task{}, f.EditTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i, err := f.indexLocked(id)
	if err != nil {
		return service.Task{}, err
	}
	f.tasks[i].Title = title
	f.tasks[i].Description = description
	return f.tasks[i], nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int32) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i, err := f.indexLocked(id)
	if err != nil {
		return err
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return nil
}

// Observe implements service.Service.
func (f *FakeService) Observe(ctx context.Context) (service.Observer, error) {
	if f.ObserveErr != nil {
		return nil, f.ObserveErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	ch := make(chan service.Change, len(f.ObserveChanges))
	for _, c := range f.ObserveChanges {
		ch <- c
	}
	close(ch)
	return &FakeObserver{snapshot: f.sortedLocked(), changes: ch}, nil
}

// Status implements service.Service.
func (f *FakeService) Status(ctx context.Context) (service.Status, error) {
	if f.StatusErr != nil {
		return service.Status{}, f.StatusErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return service.Status{Seeded: f.seeded, NextID: int(f.nextID), Count: len(f.tasks)}, nil
}

func (f *FakeService) indexLocked(id int32) (int, error) {
	for i, t := range f.tasks {
		if t.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("task %d: %w", id, service.ErrNotFound)
}

// FakeObserver is a fixed service.Observer.
type FakeObserver struct {
	snapshot []service.Task
	changes  chan service.Change
}

func (o *FakeObserver) Snapshot() []service.Task        { return o.snapshot }
func (o *FakeObserver) Changes() <-chan service.Change { return o.changes }
