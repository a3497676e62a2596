// Package speller is the owning wrapper around a spell-checking engine.
//
// # Architecture
//
//	Library   wraps an aspell.Engine and records every native object in a
//	          resource.Table
//	Config    short-lived option set, consumed by speller creation
//	Speller   long-lived checker; every method is serialised by a mutex
//
// # Quick Start
//
//	eng, err := engine.OpenShared("")
//	if err != nil {
//	    return err
//	}
//	lib := speller.Open(eng)
//	defer lib.Close()
//
//	sp, err := speller.New(lib, speller.Opt("lang", "en"))
//	if err != nil {
//	    return err
//	}
//	defer sp.Release()
//
//	ok, err := sp.Check("word")
//
// # Ownership
//
// A Config is destroyed by the first failed Apply and, unconditionally, by
// Consume. A Speller is destroyed by Release. After either, every method
// returns an error matching errors.ErrReleased and makes no native call.
//
// # Errors
//
// Operations that can set the engine's error surface read it in the same
// routine that made the call, so a failure is never lost. Validation of words
// and options happens before any native call.
package speller
