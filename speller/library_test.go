package speller

import (
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/wippyai/aspell-go"
	"github.com/wippyai/aspell-go/errors"
	"github.com/wippyai/aspell-go/internal/fakeengine"
)

// faultingEngine fails selected entry points the way a trapped wasm guest
// does: a zero result, an untouched error surface and a recorded fault.
type faultingEngine struct {
	*fakeengine.Engine
	fail   map[string]bool
	faults int
	last   error
}

var _ aspell.Faulter = (*faultingEngine)(nil)

func (f *faultingEngine) Faults() (int, error) { return f.faults, f.last }

func (f *faultingEngine) faulted(name string) bool {
	if !f.fail[name] {
		return false
	}
	f.faults++
	f.last = fmt.Errorf("%s: wasm error: unreachable", name)
	return true
}

func (f *faultingEngine) SpellerCheck(s aspell.SpellerPtr, word []byte) int32 {
	if f.faulted("check") {
		return -1
	}
	return f.Engine.SpellerCheck(s, word)
}

func (f *faultingEngine) SpellerSuggest(s aspell.SpellerPtr, word []byte) aspell.WordListPtr {
	if f.faulted("suggest") {
		return 0
	}
	return f.Engine.SpellerSuggest(s, word)
}

func (f *faultingEngine) SpellerAddToSession(s aspell.SpellerPtr, word []byte) int32 {
	if f.faulted("add_to_session") {
		return 0
	}
	return f.Engine.SpellerAddToSession(s, word)
}

func (f *faultingEngine) SpellerClearSession(s aspell.SpellerPtr) int32 {
	if f.faulted("clear_session") {
		return 0
	}
	return f.Engine.SpellerClearSession(s)
}

func (f *faultingEngine) SpellerSaveAllWordLists(s aspell.SpellerPtr) int32 {
	if f.faulted("save_all") {
		return 0
	}
	return f.Engine.SpellerSaveAllWordLists(s)
}

func (f *faultingEngine) SpellerStoreReplacement(s aspell.SpellerPtr, mis, cor []byte) int32 {
	if f.faulted("store_replacement") {
		return 0
	}
	return f.Engine.SpellerStoreReplacement(s, mis, cor)
}

func TestEngineFaultSurfaces(t *testing.T) {
	eng := &faultingEngine{Engine: fakeengine.New(), fail: make(map[string]bool)}
	lib := Open(eng)
	t.Cleanup(func() {
		_ = lib.Close()
		if live := eng.Live(); live.Total() != 0 {
			t.Errorf("native objects leaked: %+v", live)
		}
	})

	sp, err := New(lib)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer sp.Release()

	tests := []struct {
		entry string
		call  func() error
	}{
		{"check", func() error { _, err := sp.Check("word"); return err }},
		{"suggest", func() error { _, err := sp.Suggest("wrod"); return err }},
		{"add_to_session", func() error { return sp.AddToSession("quux") }},
		{"clear_session", sp.ClearSession},
		{"save_all", sp.SaveAll},
		{"store_replacement", func() error { return sp.AddReplacementPair("wrod", "trod") }},
	}

	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			if err := tt.call(); err != nil {
				t.Fatalf("call without fault failed: %v", err)
			}

			eng.fail[tt.entry] = true
			defer delete(eng.fail, tt.entry)

			err := tt.call()
			if !stderrors.Is(err, errors.ErrEngine) {
				t.Fatalf("expected engine error, got %v", err)
			}
			if !stderrors.Is(err, eng.last) {
				t.Fatalf("fault %v not carried as cause of %v", eng.last, err)
			}
		})
	}

	// an earlier fault does not taint later calls
	if _, err := sp.Check("word"); err != nil {
		t.Fatalf("Check after faults failed: %v", err)
	}
}

// blockingEngine parks inside SpellerAddToSession until proceed is closed.
type blockingEngine struct {
	*fakeengine.Engine
	entered chan struct{}
	proceed chan struct{}
}

func (b *blockingEngine) SpellerAddToSession(s aspell.SpellerPtr, word []byte) int32 {
	close(b.entered)
	<-b.proceed
	return b.Engine.SpellerAddToSession(s, word)
}

func TestLibraryClose_WaitsForCallsInFlight(t *testing.T) {
	eng := &blockingEngine{
		Engine:  fakeengine.New(),
		entered: make(chan struct{}),
		proceed: make(chan struct{}),
	}
	lib := Open(eng)

	sp, err := New(lib)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	added := make(chan error, 1)
	go func() { added <- sp.AddToSession("quux") }()
	<-eng.entered

	closed := make(chan error, 1)
	go func() { closed <- lib.Close() }()

	select {
	case <-closed:
		t.Fatal("Close returned while a speller call was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(eng.proceed)
	if err := <-added; err != nil {
		t.Fatalf("AddToSession failed: %v", err)
	}
	if err := <-closed; err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if v := eng.Violations(); len(v) != 0 {
		t.Fatalf("violations: %v", v)
	}
	if live := eng.Live(); live.Total() != 0 {
		t.Fatalf("native objects leaked: %+v", live)
	}
	if _, err := sp.Check("quux"); !stderrors.Is(err, errors.ErrReleased) {
		t.Fatalf("Check after close: expected released error, got %v", err)
	}
}
