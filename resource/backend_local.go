package resource

import (
	"slices"
	"sync"

	"github.com/wippyai/aspell-go/errors"
)

// ErrClosed is returned by Create once the backend has been closed.
var ErrClosed = errors.Released("record native object", "resource table")

// LocalBackend stores tracked values in numbered slots.
//
// Handles index slots directly and are recycled through a free list, so a
// stale handle may later name a different object. Owners clear their copy
// of a handle once it has been dropped.
type LocalBackend struct {
	slots  []slot
	free   []Handle
	seq    uint64
	mu     sync.RWMutex
	closed bool
}

// slot is empty when seq is 0.
type slot struct {
	value   any
	seq     uint64
	borrows uint32
	kind    Kind
}

func NewLocalBackend() *LocalBackend {
	return &LocalBackend{
		slots: make([]slot, 0, 16),
		free:  make([]Handle, 0, 8),
	}
}

// Create stores value in a free slot.
func (b *LocalBackend) Create(kind Kind, value any) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}

	b.seq++
	s := slot{value: value, seq: b.seq, kind: kind}

	if n := len(b.free); n > 0 {
		h := b.free[n-1]
		b.free = b.free[:n-1]
		b.slots[h-1] = s
		return h, nil
	}
	b.slots = append(b.slots, s)
	return Handle(len(b.slots)), nil
}

func (b *LocalBackend) at(h Handle) *slot {
	if h == 0 || int(h) > len(b.slots) {
		return nil
	}
	if s := &b.slots[h-1]; s.seq != 0 {
		return s
	}
	return nil
}

func (b *LocalBackend) Get(h Handle) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if s := b.at(h); s != nil {
		return s.value, true
	}
	return nil, false
}

func (b *LocalBackend) Kind(h Handle) (Kind, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if s := b.at(h); s != nil {
		return s.kind, true
	}
	return 0, false
}

// Drop empties the slot and hands its value back for release. It refuses
// unknown and borrowed handles.
func (b *LocalBackend) Drop(h Handle) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.at(h)
	if s == nil || s.borrows > 0 {
		return nil, false
	}
	value := s.value
	*s = slot{}
	b.free = append(b.free, h)
	return value, true
}

func (b *LocalBackend) Borrow(h Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.at(h)
	if s == nil {
		return false
	}
	s.borrows++
	return true
}

func (b *LocalBackend) ReturnBorrow(h Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.at(h)
	if s == nil || s.borrows == 0 {
		return false
	}
	s.borrows--
	return true
}

// Close releases every remaining Releaser, newest first, ignoring borrows.
// Later calls do nothing.
func (b *LocalBackend) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	live := make([]slot, 0, len(b.slots))
	for _, s := range b.slots {
		if s.seq != 0 {
			live = append(live, s)
		}
	}
	b.slots, b.free = nil, nil
	b.mu.Unlock()

	slices.SortFunc(live, func(x, y slot) int {
		switch {
		case x.seq > y.seq:
			return -1
		case x.seq < y.seq:
			return 1
		}
		return 0
	})
	for _, s := range live {
		if r, ok := s.value.(Releaser); ok {
			r.Release()
		}
	}
	return nil
}

func (b *LocalBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, s := range b.slots {
		if s.seq != 0 {
			n++
		}
	}
	return n
}

// Each visits live slots in handle order until fn returns false.
func (b *LocalBackend) Each(fn func(Handle, Kind, any) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i, s := range b.slots {
		if s.seq != 0 && !fn(Handle(i+1), s.kind, s.value) {
			return
		}
	}
}
