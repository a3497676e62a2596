//go:build cgo && linux

package engine

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/wippyai/aspell-go/errors"
	"github.com/wippyai/aspell-go/speller"
)

func TestOpenShared_NotAspell(t *testing.T) {
	_, err := OpenShared("libc.so.6")

	var missing *errors.MissingSymbolsError
	if !stderrors.As(err, &missing) {
		t.Fatalf("expected MissingSymbolsError, got %v", err)
	}
	if len(missing.Symbols) != int(numSymbols) {
		t.Fatalf("got %d missing symbols, want %d", len(missing.Symbols), numSymbols)
	}
}

func TestOpenShared_System(t *testing.T) {
	path, err := Find()
	if err != nil {
		t.Skipf("libaspell not installed: %v", err)
	}
	eng, err := OpenShared(path)
	if err != nil {
		t.Fatalf("OpenShared(%s) failed: %v", path, err)
	}
	defer eng.Close(context.Background())

	lib := speller.Open(eng)
	defer lib.Close()

	keys, err := speller.DefaultConfigKeys(lib)
	if err != nil {
		t.Fatalf("DefaultConfigKeys failed: %v", err)
	}
	if len(keys) == 0 {
		t.Fatal("no configuration keys")
	}

	sp, err := speller.New(lib, speller.Opt("lang", "en"))
	if err != nil {
		t.Skipf("no English dictionary: %v", err)
	}
	defer sp.Release()

	ok, err := sp.Check("word")
	if err != nil || !ok {
		t.Fatalf("Check(word) = %v, %v", ok, err)
	}
}
