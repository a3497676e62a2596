package speller

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/aspell-go"
	"github.com/wippyai/aspell-go/errors"
	"github.com/wippyai/aspell-go/resource"
)

// Library owns the native objects created through one engine.
//
// Every Config and Speller operation holds the library open while it runs,
// so Close waits for calls in flight and never destroys an object in use.
type Library struct {
	eng     aspell.Engine
	faulter aspell.Faulter
	table   *resource.Table
	log     *zap.Logger
	mu      sync.RWMutex
	closed  bool
}

// LibraryOption configures a Library.
type LibraryOption func(*Library)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *zap.Logger) LibraryOption {
	return func(lib *Library) {
		if l != nil {
			lib.log = l
		}
	}
}

// Open wraps an engine.
func Open(eng aspell.Engine, opts ...LibraryOption) *Library {
	lib := &Library{
		eng:   eng,
		table: resource.NewTable(),
		log:   Logger(),
	}
	lib.faulter, _ = eng.(aspell.Faulter)
	for _, opt := range opts {
		opt(lib)
	}

	lib.table.Subscribe(resource.ObserverFunc(func(e resource.Event) {
		lib.log.Debug("native object",
			zap.Stringer("event", e.Type),
			zap.Stringer("kind", e.Kind),
			zap.Uint32("handle", uint32(e.Handle)))
	}))
	return lib
}

// Engine returns the wrapped engine.
func (l *Library) Engine() aspell.Engine {
	return l.eng
}

// Live returns the number of native objects still owned.
func (l *Library) Live() int {
	return l.table.Len()
}

// Close destroys every object still owned. Spellers that were never released
// are logged. Later calls on them return a released error.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	for _, h := range l.table.Handles(resource.KindSpeller) {
		l.log.Warn("speller not released before library close",
			zap.Uint32("handle", uint32(h)))
	}
	return l.table.Close()
}

// run calls fn with the library held open. An engine fault recorded while fn
// ran is returned as an engine error in place of fn's result, since the
// faulting call reported nothing through the error surface.
func (l *Library) run(op string, fn func() error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return errors.Released(op, "library")
	}

	before := 0
	if l.faulter != nil {
		before, _ = l.faulter.Faults()
	}
	err := fn()
	if l.faulter == nil {
		return err
	}
	if n, fault := l.faulter.Faults(); n != before {
		l.log.Debug("engine fault", zap.String("op", op), zap.Error(fault))
		return errors.New(errors.PhaseOperation, errors.KindEngine).
			Op(op).
			Cause(fault).
			Detail("engine call failed").
			Build()
	}
	return err
}

// track records a native object. If the library is closed the object is
// destroyed at once and a released error is returned.
func (l *Library) track(op string, kind resource.Kind, r resource.Releaser) (resource.Handle, error) {
	h := l.table.Insert(kind, r)
	if h == 0 {
		r.Release()
		return 0, errors.Released(op, "library")
	}
	return h, nil
}
