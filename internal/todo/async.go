package todo

import (
	"context"

	"todo/internal/service"
	"todo/internal/workerpool"
)

// Async runs manager operations on a worker pool. Calls return immediately;
// done, when non-nil, receives the result on a worker goroutine. Live views
// remain the way to observe the effect on the task list.
type Async struct {
	m    *Manager
	pool workerpool.TaskPool
}

// NewAsync wraps m. The pool is owned by the caller.
func NewAsync(m *Manager, pool workerpool.TaskPool) (*Async, error) {
	if m == nil {
		return nil, ErrStoreNil
	}
	if pool == nil {
		return nil, ErrPoolNil
	}
	return &Async{m: m, pool: pool}, nil
}

func (a *Async) CreateTask(ctx context.Context, title, description string, done func(service.Task, error)) {
	a.submit(done, func() (service.Task, error) {
		return a.m.CreateTask(ctx, title, description)
	})
}

func (a *Async) ToggleCompleted(ctx context.Context, id int32, done func(service.Task, error)) {
	a.submit(done, func() (service.Task, error) {
		return a.m.ToggleCompleted(ctx, id)
	})
}

func (a *Async) EditTask(ctx context.Context, id int32, title, description string, done func(service.Task, error)) {
	a.submit(done, func() (service.Task, error) {
		return a.m.EditTask(ctx, id, title, description)
	})
}

func (a *Async) DeleteTask(ctx context.Context, id int32, done func(error)) {
	a.submit(func(_ service.Task, err error) {
		if done != nil {
			done(err)
		}
	}, func() (service.Task, error) {
		return service.Task{}, a.m.DeleteTask(ctx, id)
	})
}

// submit reports a rejected job through done on its own goroutine so the
// callback never runs on the caller's stack.
func (a *Async) submit(done func(service.Task, error), op func() (service.Task, error)) {
	err := a.pool.Enqueue(func() {
		task, err := op()
		if done != nil {
			done(task, err)
		}
	})
	if err != nil {
		a.m.log.Error(err, "dispatch task operation failed")
		if done != nil {
			go done(service.Task{}, err)
		}
	}
}
