package resource

import (
	"sync"
)

// Table records native objects and releases each exactly once.
type Table struct {
	backend   *LocalBackend
	observers []Observer
	obsMu     sync.RWMutex
	closed    bool
	closeMu   sync.RWMutex
}

// NewTable creates a new table with a LocalBackend.
func NewTable() *Table {
	return &Table{
		backend: NewLocalBackend(),
	}
}

// Insert records a value and returns its handle.
// It returns 0 once the table is closed; the caller still owns the value then.
func (t *Table) Insert(kind Kind, value any) Handle {
	t.closeMu.RLock()
	if t.closed {
		t.closeMu.RUnlock()
		return 0
	}
	t.closeMu.RUnlock()

	handle, err := t.backend.Create(kind, value)
	if err != nil {
		return 0
	}

	t.notify(Event{
		Type:   EventCreated,
		Handle: handle,
		Kind:   kind,
		Value:  value,
	})

	return handle
}

// GetTyped retrieves a value only if it has the expected kind.
func (t *Table) GetTyped(handle Handle, kind Kind) (any, bool) {
	actual, ok := t.backend.Kind(handle)
	if !ok || actual != kind {
		return nil, false
	}
	return t.backend.Get(handle)
}

// Remove forgets a handle and releases its value.
// It returns false, without releasing anything, if the handle is unknown,
// already removed, or borrowed.
func (t *Table) Remove(handle Handle) (any, bool) {
	kind, _ := t.backend.Kind(handle)
	value, ok := t.backend.Drop(handle)
	if !ok {
		return nil, false
	}

	if r, ok := value.(Releaser); ok {
		r.Release()
	}

	t.notify(Event{
		Type:   EventReleased,
		Handle: handle,
		Kind:   kind,
		Value:  value,
	})

	return value, true
}

// Borrow marks a handle as in use by a dependent object.
func (t *Table) Borrow(handle Handle) bool {
	if !t.backend.Borrow(handle) {
		return false
	}
	kind, _ := t.backend.Kind(handle)
	t.notify(Event{Type: EventBorrowed, Handle: handle, Kind: kind})
	return true
}

// ReturnBorrow releases a borrow taken with Borrow.
func (t *Table) ReturnBorrow(handle Handle) bool {
	if !t.backend.ReturnBorrow(handle) {
		return false
	}
	kind, _ := t.backend.Kind(handle)
	t.notify(Event{Type: EventBorrowReturned, Handle: handle, Kind: kind})
	return true
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Len returns the number of live handles.
func (t *Table) Len() int {
	return t.backend.Len()
}

// Handles returns the live handles of one kind.
func (t *Table) Handles(kind Kind) []Handle {
	var handles []Handle
	t.backend.Each(func(h Handle, k Kind, _ any) bool {
		if k == kind {
			handles = append(handles, h)
		}
		return true
	})
	return handles
}

// Close releases everything still recorded and stops accepting inserts.
func (t *Table) Close() error {
	t.closeMu.Lock()
	t.closed = true
	t.closeMu.Unlock()

	return t.backend.Close()
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
