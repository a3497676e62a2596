package enum

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/wippyai/aspell-go"
	"github.com/wippyai/aspell-go/errors"
	"github.com/wippyai/aspell-go/internal/fakeengine"
)

func utf8Decode(b []byte) (string, error) { return string(b), nil }

func TestStrings(t *testing.T) {
	tests := []struct {
		name  string
		words []string
	}{
		{"empty", nil},
		{"one", []string{"word"}},
		{"several", []string{"tree", "rock", "cat"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := fakeengine.New()
			e := eng.NewStringEnum(tt.words...)

			got := Strings(eng, e)
			if len(got) != len(tt.words) {
				t.Fatalf("got %d elements, want %d", len(got), len(tt.words))
			}
			for i := range got {
				if string(got[i]) != tt.words[i] {
					t.Fatalf("element %d = %q, want %q", i, got[i], tt.words[i])
				}
			}
			if n := eng.Live().StringEnums; n != 0 {
				t.Fatalf("%d string enumerations still live", n)
			}
		})
	}
}

func TestStrings_Null(t *testing.T) {
	eng := fakeengine.New()

	got := Strings(eng, 0)
	if got == nil || len(got) != 0 {
		t.Fatalf("got %v, want empty non-nil slice", got)
	}
	if calls := eng.Calls(); len(calls) != 0 {
		t.Fatalf("unexpected native calls: %v", calls)
	}
}

func TestWordList(t *testing.T) {
	eng := fakeengine.New()
	wl := eng.NewWordList("word", "trod")

	got, err := WordList(eng, wl, utf8Decode)
	if err != nil {
		t.Fatalf("WordList failed: %v", err)
	}
	if len(got) != 2 || got[0] != "word" || got[1] != "trod" {
		t.Fatalf("got %v", got)
	}
	if n := eng.Live().StringEnums; n != 0 {
		t.Fatalf("%d string enumerations still live", n)
	}
	if v := eng.Violations(); len(v) != 0 {
		t.Fatalf("violations: %v", v)
	}
}

func TestWordList_Null(t *testing.T) {
	eng := fakeengine.New()

	got, err := WordList(eng, 0, utf8Decode)
	if err != nil {
		t.Fatalf("WordList failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("got %v, want empty non-nil slice", got)
	}
}

func TestWordList_DecodeFailureStillDestroys(t *testing.T) {
	eng := fakeengine.New()
	wl := eng.NewWordList("good", "bad", "after")

	decodeErr := fmt.Errorf("undecodable")
	decode := func(b []byte) (string, error) {
		if string(b) == "bad" {
			return "", decodeErr
		}
		return string(b), nil
	}

	_, err := WordList(eng, wl, decode)
	if err == nil {
		t.Fatal("expected error")
	}
	if !stderrors.Is(err, decodeErr) {
		t.Fatalf("error does not wrap decoder failure: %v", err)
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindInvalidData || e.Phase != errors.PhaseDecode {
		t.Fatalf("unexpected error shape: %v", err)
	}
	if n := eng.Live().StringEnums; n != 0 {
		t.Fatalf("%d string enumerations still live", n)
	}
}

func TestKeyInfos(t *testing.T) {
	eng := fakeengine.New()
	records := []aspell.KeyInfo{
		{Name: "lang", Type: aspell.KeyInfoString, Default: "en"},
		{Name: "run-together-min", Type: aspell.KeyInfoInt, Default: "3"},
	}
	e := eng.NewKeyInfoEnum(records...)

	got := KeyInfos(eng, e)
	if len(got) != len(records) {
		t.Fatalf("got %d records, want %d", len(got), len(records))
	}
	for i := range got {
		if got[i] != records[i] {
			t.Fatalf("record %d = %+v, want %+v", i, got[i], records[i])
		}
	}
	if n := eng.Live().KeyInfoEnums; n != 0 {
		t.Fatalf("%d key-info enumerations still live", n)
	}
}

func TestKeyInfos_Null(t *testing.T) {
	got := KeyInfos(fakeengine.New(), 0)
	if got == nil || len(got) != 0 {
		t.Fatalf("got %v, want empty non-nil slice", got)
	}
}
