package series

import (
	"slices"
	"sync"
)

// Reason is the coarse cause of a change event.
type Reason uint8

const (
	// ReasonDataChanged is raised after rows are appended, inserted, updated or removed.
	ReasonDataChanged Reason = iota + 1
	// ReasonCleared is raised after the series is cleared or its fifo capacity changes.
	ReasonCleared
)

func (r Reason) String() string {
	switch r {
	case ReasonDataChanged:
		return "DataChanged"
	case ReasonCleared:
		return "Cleared"
	default:
		return "Unknown"
	}
}

// Event is delivered to subscribers after a mutation. It carries no row information;
// subscribers re-derive affected ranges themselves.
type Event struct {
	Reason Reason
	// Series is the name given with WithName.
	Series string
}

// observers is a registration list of change callbacks.
type observers struct {
	mu     sync.Mutex
	nextID uint64
	fns    map[uint64]func(Event)
}

func (o *observers) add(fn func(Event)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.fns == nil {
		o.fns = make(map[uint64]func(Event))
	}
	id := o.nextID
	o.nextID++
	o.fns[id] = fn

	var once sync.Once

	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.fns, id)
			o.mu.Unlock()
		})
	}
}

// emit calls every observer synchronously, in registration order.
// It must not be called with the series lock held.
func (o *observers) emit(ev Event) {
	o.mu.Lock()
	if len(o.fns) == 0 {
		o.mu.Unlock()
		return
	}

	ids := make([]uint64, 0, len(o.fns))
	for id := range o.fns {
		ids = append(ids, id)
	}
	fns := make([]func(Event), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, o.fns[id])
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
