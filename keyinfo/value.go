package keyinfo

import (
	"strconv"
	"strings"

	"github.com/wippyai/aspell-go"
)

// Kind is the declared type of a configuration key.
type Kind uint8

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// KindOf maps an engine kind tag. It reports false for tags it does not know.
func KindOf(t aspell.KeyInfoType) (Kind, bool) {
	switch t {
	case aspell.KeyInfoString:
		return KindString, true
	case aspell.KeyInfoInt:
		return KindInt, true
	case aspell.KeyInfoBool:
		return KindBool, true
	case aspell.KeyInfoList:
		return KindList, true
	}
	return 0, false
}

// Value is a typed configuration value. The set of implementations is closed:
// String, Int, Bool and List.
type Value interface {
	Kind() Kind
	isValue()
}

type (
	String string
	Int    int
	Bool   bool
	List   []string
)

func (String) Kind() Kind { return KindString }
func (Int) Kind() Kind    { return KindInt }
func (Bool) Kind() Kind   { return KindBool }
func (List) Kind() Kind   { return KindList }

func (String) isValue() {}
func (Int) isValue()    {}
func (Bool) isValue()   {}
func (List) isValue()   {}

// Encode renders v in the engine's textual form.
// Booleans become "true" or "false", integers are decimal and list elements
// are joined with single spaces.
func Encode(v Value) string {
	switch v := v.(type) {
	case String:
		return string(v)
	case Int:
		return strconv.Itoa(int(v))
	case Bool:
		if v {
			return "true"
		}
		return "false"
	case List:
		return strings.Join(v, " ")
	}
	return ""
}

// Equal reports whether a and b hold the same kind and contents.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	if la, ok := a.(List); ok {
		lb := b.(List)
		if len(la) != len(lb) {
			return false
		}
		for i := range la {
			if la[i] != lb[i] {
				return false
			}
		}
		return true
	}
	return a == b
}
