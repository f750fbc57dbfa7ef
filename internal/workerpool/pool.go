// Package workerpool runs jobs on a fixed set of goroutines behind a bounded queue.
package workerpool

import (
	"errors"
	"sync"
)

var (
	ErrPoolFull   = errors.New("task pool is full")
	ErrPoolClosed = errors.New("task pool is closed")
)

// Job is a unit of work.
type Job func()

// TaskPool accepts jobs without blocking the caller.
type TaskPool interface {
	Enqueue(job Job) error
}

type Pool struct {
	queue chan Job
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// New starts workers goroutines draining a queue of size jobs.
func New(workers, size int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if size < 0 {
		size = 0
	}
	p := &Pool{queue: make(chan Job, size)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.work()
	}
	return p
}

func (p *Pool) work() {
	defer p.wg.Done()
	for job := range p.queue {
		job()
	}
}

// Enqueue hands job to the queue, or fails with ErrPoolFull or ErrPoolClosed.
func (p *Pool) Enqueue(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.queue <- job:
		return nil
	default:
		return ErrPoolFull
	}
}

// Close stops accepting jobs and waits for queued ones to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
}
