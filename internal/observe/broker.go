package observe

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"todo/internal/service"
)

// Broker fans committed snapshots out to live views.
type Broker struct {
	mu    sync.RWMutex
	views map[uuid.UUID]*View
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{views: make(map[uuid.UUID]*View)}
}

// Len returns the number of live views.
func (b *Broker) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.views)
}

// Subscribe starts a view seeded with initial. The view stops and closes its
// change channel when ctx is done.
func (b *Broker) Subscribe(ctx context.Context, key SortKey, initial []service.Task) *View {
	v := &View{
		id:       uuid.New(),
		key:      key,
		snapshot: Sort(initial, key),
		notify:   make(chan struct{}, 1),
		changes:  make(chan service.Change, 64),
	}

	b.mu.Lock()
	b.views[v.id] = v
	b.mu.Unlock()

	go func() {
		v.run(ctx)
		b.mu.Lock()
		delete(b.views, v.id)
		b.mu.Unlock()
	}()
	return v
}

// Publish hands a committed snapshot to every view. It never blocks on a slow view.
func (b *Broker) Publish(snapshot []service.Task) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, v := range b.views {
		v.offer(snapshot)
	}
}

// View is a live ordered view of the task list. It implements service.Observer.
type View struct {
	id  uuid.UUID
	key SortKey

	mu       sync.Mutex
	snapshot []service.Task
	pending  []service.Task
	hasNext  bool

	notify  chan struct{}
	changes chan service.Change
}

// ID identifies the subscription.
func (v *View) ID() uuid.UUID { return v.id }

// Snapshot returns the ordered tasks as of the most recently processed commit.
func (v *View) Snapshot() []service.Task {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.snapshot)
}

// Changes delivers change events until the view stops.
func (v *View) Changes() <-chan service.Change { return v.changes }

// offer keeps only the newest pending snapshot; diffing against the last
// delivered snapshot makes the coalesced events complete.
func (v *View) offer(snapshot []service.Task) {
	v.mu.Lock()
	v.pending = snapshot
	v.hasNext = true
	v.mu.Unlock()

	select {
	case v.notify <- struct{}{}:
	default:
	}
}

func (v *View) run(ctx context.Context) {
	defer close(v.changes)
	for {
		select {
		case <-ctx.Done():
			return
		case <-v.notify:
		}

		v.mu.Lock()
		if !v.hasNext {
			v.mu.Unlock()
			continue
		}
		next := Sort(v.pending, v.key)
		v.pending, v.hasNext = nil, false
		changes := Diff(v.snapshot, next)
		v.snapshot = next
		v.mu.Unlock()

		for _, c := range changes {
			select {
			case v.changes <- c:
			case <-ctx.Done():
				return
			}
		}
	}
}
