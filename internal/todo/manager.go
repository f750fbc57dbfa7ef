// Package todo is the task service: it assigns task IDs, seeds the local
// store from the remote source on first run, and exposes the operations the
// presentation layer calls.
package todo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"todo/internal/observe"
	"todo/internal/prefs"
	"todo/internal/service"
)

// Preference keys.
const (
	KeyToDosIsLoaded = "ToDosIsLoaded"
	KeyNextID        = "NextId"
)

// TaskStore is the local store contract the manager depends on.
type TaskStore interface {
	Create(ctx context.Context, task service.Task) error
	CreateMany(ctx context.Context, tasks []service.Task) error
	FetchAll(ctx context.Context) ([]service.Task, error)
	FindByID(ctx context.Context, id int32) (service.Task, error)
	Update(ctx context.Context, id int32, mutate func(*service.Task)) (service.Task, error)
	Delete(ctx context.Context, id int32) error
	ObserveAll(ctx context.Context, key observe.SortKey) (*observe.View, error)
}

// Manager implements service.Service.
type Manager struct {
	store  TaskStore
	remote service.RemoteSource
	prefs  prefs.Store
	log    logr.Logger
	now    func() time.Time

	// allocMu serializes ID allocation. Seeding holds it until it settles so
	// no ID is handed out before the counter is final.
	allocMu  sync.Mutex
	initOnce sync.Once
	seeded   chan struct{}
}

// New creates a manager. remote may be nil, which disables seeding.
func New(store TaskStore, remote service.RemoteSource, p prefs.Store, log logr.Logger) (*Manager, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	if p == nil {
		return nil, ErrPrefsNil
	}
	return &Manager{
		store:  store,
		remote: remote,
		prefs:  p,
		log:    log,
		now:    time.Now,
		seeded: make(chan struct{}),
	}, nil
}

// Init runs the first-run protocol once per process. When the seed flag is
// unset it starts the remote fetch in the background and returns; Seeded
// reports when it has settled.
func (m *Manager) Init(ctx context.Context) error {
	var err error
	m.initOnce.Do(func() {
		var loaded bool
		loaded, err = m.prefs.Bool(KeyToDosIsLoaded)
		if err != nil {
			err = &service.StorageError{Op: "read seed flag", Err: err}
			close(m.seeded)
			return
		}
		if loaded || m.remote == nil {
			m.log.V(1).Info("seeding skipped", "loaded", loaded)
			close(m.seeded)
			return
		}

		m.allocMu.Lock()
		go func() {
			defer close(m.seeded)
			defer m.allocMu.Unlock()
			m.seed(ctx)
		}()
	})
	return err
}

// Seeded returns a channel closed once first-run seeding has settled.
// It never closes before Init is called.
func (m *Manager) Seeded() <-chan struct{} {
	return m.seeded
}

// WaitSeeded blocks until seeding settles or ctx is done.
func (m *Manager) WaitSeeded(ctx context.Context) error {
	select {
	case <-m.seeded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// seed runs with allocMu held. On a store that already holds tasks, or whose
// counter has moved, the seeded tasks are renumbered from the first free ID
// so they never collide with local ones.
func (m *Manager) seed(ctx context.Context) {
	list, fetchErr := m.remote.FetchInitialTasks(ctx)
	if fetchErr != nil {
		m.log.V(1).Info("remote seed unavailable", "reason", fetchErr.Error())
		m.markSeeded()
		return
	}

	// Without the counter and the local IDs there is no safe numbering; the
	// flag stays unset and the next start tries again.
	current, err := m.prefs.Int(KeyNextID, 1)
	if err != nil {
		m.log.Error(err, "read next id failed")
		return
	}
	existing, err := m.store.FetchAll(ctx)
	if err != nil {
		m.log.Error(err, "read local tasks before seeding failed")
		return
	}
	first := current
	for _, t := range existing {
		first = max(first, int(t.ID)+1)
	}
	renumber := first > 1
	if renumber && first+len(list.Todos) > math.MaxInt32 {
		m.log.Error(ErrIDSpace, "seeded tasks do not fit the id space", "first", first, "count", len(list.Todos))
		m.markSeeded()
		return
	}

	now := m.now()
	next := list.Total + 1
	tasks := make([]service.Task, 0, len(list.Todos))
	for i, rt := range list.Todos {
		id := rt.ID
		if renumber {
			id = int32(first + i)
		}
		next = max(next, int(id)+1)
		tasks = append(tasks, service.Task{
			ID:        id,
			OwnerID:   rt.UserID,
			Title:     rt.Todo,
			Completed: rt.Completed,
			CreatedAt: now,
		})
	}
	if err := m.store.CreateMany(ctx, tasks); err != nil {
		m.log.Error(err, "save seeded tasks failed", "count", len(tasks))
	} else {
		m.log.V(1).Info("seeded tasks", "count", len(tasks), "total", list.Total, "renumbered", renumber)
	}
	m.markSeeded()

	if next <= current {
		return
	}
	if err := m.prefs.SetInt(KeyNextID, next); err != nil {
		m.log.Error(err, "persist next id failed", "next", next)
	}
}

func (m *Manager) markSeeded() {
	if err := m.prefs.SetBool(KeyToDosIsLoaded, true); err != nil {
		m.log.Error(err, "persist seed flag failed")
	}
}

// allocateID reads, increments and persists the counter. The ID is consumed
// even if the caller's insert later fails.
func (m *Manager) allocateID() (int32, error) {
	m.allocMu.Lock()
	defer m.allocMu.Unlock()

	id, err := m.prefs.Int(KeyNextID, 1)
	if err != nil {
		return 0, &service.StorageError{Op: "read next id", Err: err}
	}
	if id < 1 || id > math.MaxInt32 {
		return 0, &service.StorageError{Op: "allocate id", Err: fmt.Errorf("%w: %d", ErrIDSpace, id)}
	}
	if err := m.prefs.SetInt(KeyNextID, id+1); err != nil {
		return 0, &service.StorageError{Op: "persist next id", Err: err}
	}
	return int32(id), nil
}

// CreateTask stores a new open task owned by service.LocalOwnerID.
func (m *Manager) CreateTask(ctx context.Context, title, description string) (service.Task, error) {
	if strings.TrimSpace(title) == "" {
		return service.Task{}, fmt.Errorf("%w: title required", service.ErrInvalidInput)
	}

	id, err := m.allocateID()
	if err != nil {
		m.log.Error(err, "allocate task id failed")
		return service.Task{}, err
	}

	task := service.Task{
		ID:          id,
		OwnerID:     service.LocalOwnerID,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   m.now(),
	}
	if err := m.store.Create(ctx, task); err != nil {
		m.logFailure(err, "create task failed", id)
		return service.Task{}, err
	}
	return task, nil
}

// ToggleCompleted flips the completion state.
func (m *Manager) ToggleCompleted(ctx context.Context, id int32) (service.Task, error) {
	task, err := m.store.Update(ctx, id, func(t *service.Task) {
		t.Completed = !t.Completed
	})
	if err != nil {
		m.logFailure(err, "toggle task failed", id)
		return service.Task{}, err
	}
	return task, nil
}

// EditTask replaces title and description.
func (m *Manager) EditTask(ctx context.Context, id int32, title, description string) (service.Task, error) {
	if strings.TrimSpace(title) == "" {
		return service.Task{}, fmt.Errorf("%w: title required", service.ErrInvalidInput)
	}
	task, err := m.store.Update(ctx, id, func(t *service.Task) {
		t.Title = title
		t.Description = description
	})
	if err != nil {
		m.logFailure(err, "edit task failed", id)
		return service.Task{}, err
	}
	return task, nil
}

// DeleteTask removes a task.
func (m *Manager) DeleteTask(ctx context.Context, id int32) error {
	if err := m.store.Delete(ctx, id); err != nil {
		m.logFailure(err, "delete task failed", id)
		return err
	}
	return nil
}

// ListTasks returns all tasks, newest first.
func (m *Manager) ListTasks(ctx context.Context) ([]service.Task, error) {
	return m.store.FetchAll(ctx)
}

// GetTask returns one task.
func (m *Manager) GetTask(ctx context.Context, id int32) (service.Task, error) {
	return m.store.FindByID(ctx, id)
}

// Observe returns a live view ordered newest first.
func (m *Manager) Observe(ctx context.Context) (service.Observer, error) {
	v, err := m.store.ObserveAll(ctx, observe.CreatedDesc)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Status reports the persisted state.
func (m *Manager) Status(ctx context.Context) (service.Status, error) {
	loaded, err := m.prefs.Bool(KeyToDosIsLoaded)
	if err != nil {
		return service.Status{}, &service.StorageError{Op: "read seed flag", Err: err}
	}
	next, err := m.prefs.Int(KeyNextID, 1)
	if err != nil {
		return service.Status{}, &service.StorageError{Op: "read next id", Err: err}
	}
	tasks, err := m.store.FetchAll(ctx)
	if err != nil {
		return service.Status{}, err
	}
	return service.Status{Seeded: loaded, NextID: next, Count: len(tasks)}, nil
}

func (m *Manager) logFailure(err error, msg string, id int32) {
	if errors.Is(err, service.ErrNotFound) {
		m.log.V(1).Info(msg, "id", id, "reason", err.Error())
		return
	}
	m.log.Error(err, msg, "id", id)
}
