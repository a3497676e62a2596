// Package enum drains native enumerations into Go slices.
//
// Every function here destroys the enumeration it drained, on every path,
// including when decoding an element fails part way through.
package enum

import (
	"github.com/wippyai/aspell-go"
	"github.com/wippyai/aspell-go/errors"
)

// Decoder converts one element from the engine's encoding.
type Decoder func([]byte) (string, error)

// drain collects next until it reports false, then calls destroy.
func drain[T any](next func() (T, bool), destroy func()) []T {
	defer destroy()

	out := make([]T, 0)
	for {
		v, ok := next()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

// Strings drains a string enumeration and destroys it.
// A null enumeration yields an empty slice and no native call.
func Strings(eng aspell.Engine, e aspell.StringEnumPtr) [][]byte {
	if e == 0 {
		return [][]byte{}
	}
	return drain(
		func() ([]byte, bool) { return eng.StringEnumNext(e) },
		func() { eng.DeleteStringEnum(e) },
	)
}

// WordList returns the decoded words of a borrowed word list.
// The word list itself is owned by its speller and is not destroyed; the
// elements enumeration obtained from it is. A null word list yields an empty
// slice.
func WordList(eng aspell.Engine, wl aspell.WordListPtr, decode Decoder) ([]string, error) {
	if wl == 0 {
		return []string{}, nil
	}
	raw := Strings(eng, eng.WordListElements(wl))

	words := make([]string, 0, len(raw))
	for i, b := range raw {
		w, err := decode(b)
		if err != nil {
			return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
				Op("word list").
				Value(b).
				Cause(err).
				Detail("element %d is not valid in the engine encoding", i).
				Build()
		}
		words = append(words, w)
	}
	return words, nil
}

// KeyInfos drains a key-info enumeration and destroys it.
func KeyInfos(eng aspell.Engine, e aspell.KeyInfoEnumPtr) []aspell.KeyInfo {
	if e == 0 {
		return []aspell.KeyInfo{}
	}
	return drain(
		func() (aspell.KeyInfo, bool) { return eng.KeyInfoEnumNext(e) },
		func() { eng.DeleteKeyInfoEnum(e) },
	)
}
