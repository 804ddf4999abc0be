package resource

import (
	"errors"
	"sync"
)

var ErrClosed = errors.New("resource table closed")

// Table is a concurrency-safe handle table with observer support.
type Table struct {
	entries   []entry
	freeList  []uint32
	observers []subscription
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	live      int
	nextSubID uint64
	closed    bool
}

type subscription struct {
	o  Observer
	id uint64
}

type entry struct {
	value      any
	gen        uint32
	persistent bool
	valid      bool
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		entries:  make([]entry, 0, 64),
		freeList: make([]uint32, 0, 16),
	}
}

// Insert adds a value and returns its handle.
// Persistent marks holds that are released only explicitly.
// Returns 0 once the table is closed.
func (t *Table) Insert(value any, persistent bool) Handle {
	handle, err := t.insert(value, persistent)
	if err != nil {
		return 0
	}

	t.notify(Event{
		Type:       EventCreated,
		Handle:     handle,
		Value:      value,
		Persistent: persistent,
	})

	return handle
}

func (t *Table) insert(value any, persistent bool) (Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0, ErrClosed
	}

	t.live++
	if n := len(t.freeList); n > 0 {
		idx := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		e := &t.entries[idx]
		e.value = value
		e.persistent = persistent
		e.valid = true
		return makeHandle(idx, e.gen), nil
	}

	t.entries = append(t.entries, entry{
		value:      value,
		persistent: persistent,
		valid:      true,
	})
	return makeHandle(uint32(len(t.entries)-1), 0), nil
}

// lookup returns the live entry for handle. Caller holds t.mu.
func (t *Table) lookup(handle Handle) (*entry, bool) {
	idx, ok := handle.index()
	if !ok || int(idx) >= len(t.entries) {
		return nil, false
	}
	e := &t.entries[idx]
	if !e.valid || e.gen != handle.generation() {
		return nil, false
	}
	return e, true
}

// Get retrieves a value by handle.
func (t *Table) Get(handle Handle) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.lookup(handle)
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Persistent reports whether handle is live and was inserted as persistent.
func (t *Table) Persistent(handle Handle) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.lookup(handle)
	return ok && e.persistent
}

// Remove releases a handle and returns (value, true) if it was live.
func (t *Table) Remove(handle Handle) (any, bool) {
	value, persistent, ok := t.remove(handle)
	if !ok {
		return nil, false
	}

	if d, ok := value.(Dropper); ok {
		d.Drop()
	}

	t.notify(Event{
		Type:       EventReleased,
		Handle:     handle,
		Value:      value,
		Persistent: persistent,
	})

	return value, true
}

func (t *Table) remove(handle Handle) (any, bool, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.lookup(handle)
	if !ok {
		return nil, false, false
	}

	value, persistent := e.value, e.persistent
	e.value = nil
	e.valid = false
	e.persistent = false
	e.gen++
	idx, _ := handle.index()
	t.freeList = append(t.freeList, idx)
	t.live--

	return value, persistent, true
}

// Subscribe adds an observer for lifecycle events and returns a function
// that removes it. Observers are identified by subscription, so
// ObserverFunc values work even though funcs are not comparable.
func (t *Table) Subscribe(o Observer) (unsubscribe func()) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.nextSubID++
	id := t.nextSubID
	t.observers = append(t.observers, subscription{id: id, o: o})
	return func() { t.unsubscribe(id) }
}

func (t *Table) unsubscribe(id uint64) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, sub := range t.observers {
		if sub.id == id {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live handles.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.live
}

// Each calls fn for every live handle until fn returns false.
// fn must not call back into the table.
func (t *Table) Each(fn func(Handle, any) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i := range t.entries {
		e := &t.entries[i]
		if !e.valid {
			continue
		}
		if !fn(makeHandle(uint32(i), e.gen), e.value) {
			return
		}
	}
}

// Clear releases all handles.
func (t *Table) Clear() {
	// Collect handles first to avoid holding lock during Remove
	var handles []Handle
	t.Each(func(h Handle, _ any) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		t.Remove(h)
	}
}

// Close releases all handles and stops accepting inserts.
func (t *Table) Close() error {
	t.Clear()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, sub := range t.observers {
		sub.o.OnResourceEvent(e)
	}
}
