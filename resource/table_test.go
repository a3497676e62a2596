package resource

import (
	"testing"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnResourceEvent(e Event) {
	o.events = append(o.events, e)
}

func TestTable_Basic(t *testing.T) {
	table := NewTable()

	h := table.Insert(KindConfig, "test")
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}

	val, ok := table.GetTyped(h, KindConfig)
	if !ok {
		t.Fatal("GetTyped with correct kind failed")
	}
	if val != "test" {
		t.Fatalf("Expected 'test', got %v", val)
	}
	if _, ok = table.GetTyped(h, KindSpeller); ok {
		t.Fatal("GetTyped with wrong kind should fail")
	}

	val, ok = table.Remove(h)
	if !ok {
		t.Fatal("Remove failed")
	}
	if val != "test" {
		t.Fatalf("Expected 'test', got %v", val)
	}

	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Remove")
	}
}

func TestTable_ReleaseExactlyOnce(t *testing.T) {
	table := NewTable()
	calls := 0

	h := table.Insert(KindSpeller, ReleaseFunc(func() { calls++ }))
	table.Remove(h)
	table.Remove(h)

	if calls != 1 {
		t.Fatalf("release ran %d times, want 1", calls)
	}
}

func TestTable_BorrowBlocksRemove(t *testing.T) {
	table := NewTable()
	calls := 0

	h := table.Insert(KindSpeller, ReleaseFunc(func() { calls++ }))
	if !table.Borrow(h) {
		t.Fatal("Borrow failed")
	}
	if _, ok := table.Remove(h); ok {
		t.Fatal("Remove should fail while borrowed")
	}
	if calls != 0 {
		t.Fatal("borrowed value must not be released")
	}
	if !table.ReturnBorrow(h) {
		t.Fatal("ReturnBorrow failed")
	}
	if _, ok := table.Remove(h); !ok {
		t.Fatal("Remove should succeed after the borrow is returned")
	}
	if calls != 1 {
		t.Fatalf("release ran %d times, want 1", calls)
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	h := table.Insert(KindCanHaveError, "e")
	table.Borrow(h)
	table.ReturnBorrow(h)
	table.Remove(h)

	want := []EventType{EventCreated, EventBorrowed, EventBorrowReturned, EventReleased}
	if len(obs.events) != len(want) {
		t.Fatalf("Expected %d events, got %d", len(want), len(obs.events))
	}
	for i, typ := range want {
		if obs.events[i].Type != typ {
			t.Errorf("event %d = %v, want %v", i, obs.events[i].Type, typ)
		}
		if obs.events[i].Handle != h {
			t.Errorf("event %d has handle %d, want %d", i, obs.events[i].Handle, h)
		}
		if obs.events[i].Kind != KindCanHaveError {
			t.Errorf("event %d has kind %v", i, obs.events[i].Kind)
		}
	}
}

func TestTable_Handles(t *testing.T) {
	table := NewTable()

	table.Insert(KindConfig, "a")
	s1 := table.Insert(KindSpeller, "b")
	s2 := table.Insert(KindSpeller, "c")

	if hs := table.Handles(KindCanHaveError); len(hs) != 0 {
		t.Fatalf("Handles(can-have-error) = %v, want none", hs)
	}

	hs := table.Handles(KindSpeller)
	if len(hs) != 2 || hs[0] != s1 || hs[1] != s2 {
		t.Fatalf("Handles(speller) = %v", hs)
	}
}

func TestTable_Close(t *testing.T) {
	table := NewTable()
	calls := 0

	table.Insert(KindConfig, ReleaseFunc(func() { calls++ }))
	table.Insert(KindSpeller, ReleaseFunc(func() { calls++ }))

	if err := table.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if calls != 2 {
		t.Fatalf("Close released %d values, want 2", calls)
	}

	if h := table.Insert(KindConfig, "c"); h != 0 {
		t.Fatal("Expected Insert to fail after Close")
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		KindConfig:       "config",
		KindSpeller:      "speller",
		KindCanHaveError: "can_have_error",
		Kind(99):         "unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
