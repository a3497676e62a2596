package engine

import (
	"sort"
)

// A hand-assembled wasm module that exports the aspell entry points with
// trivial bodies, for exercising the wazero backend without a real build of
// libaspell.

type stubFunc struct {
	body    []byte
	params  int
	results int
}

const (
	opIf      = 0x04
	opElse    = 0x05
	opEnd     = 0x0b
	opLocal   = 0x20
	opGlobal  = 0x23
	opSetGlob = 0x24
	opLoad8U  = 0x2d
	opConst   = 0x41
	opEqz     = 0x45
	opEq      = 0x46
	opAdd     = 0x6a
	typeI32   = 0x7f
)

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func sleb(v int32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func i32(v int32) []byte { return append([]byte{opConst}, sleb(v)...) }

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func section(id byte, count int, payload []byte) []byte {
	body := cat(uleb(uint32(count)), payload)
	return cat([]byte{id}, uleb(uint32(len(body))), body)
}

func name(s string) []byte { return cat(uleb(uint32(len(s))), []byte(s)) }

// Guest memory layout of the stub.
const (
	stubConfig    = 16
	stubSpeller   = 32
	stubLang      = 64  // "en"
	stubNoError   = 80  // "no error"
	stubEncoding  = 96  // "utf-8"
	stubKeyInfo   = 128 // AspellKeyInfo for "lang"
	stubKeyName   = 200 // "lang"
	stubKeyDesc   = 216 // "language code"
	stubEnumWord  = 300 // "word"
	stubHeapStart = 4096
)

func le32(vs ...uint32) []byte {
	var out []byte
	for _, v := range vs {
		out = append(out, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}
	return out
}

func stubData() map[uint32][]byte {
	return map[uint32][]byte{
		stubLang:     []byte("en\x00"),
		stubNoError:  []byte("no error\x00"),
		stubEncoding: []byte("utf-8\x00"),
		stubKeyInfo:  le32(stubKeyName, 0, stubLang, stubKeyDesc, 0, 7),
		stubKeyName:  []byte("lang\x00"),
		stubKeyDesc:  []byte("language code\x00"),
		stubEnumWord: []byte("word\x00"),
	}
}

// onceThenZero returns ptr on the first call and 0 afterwards, using global g.
func onceThenZero(g byte, ptr int32) []byte {
	return cat(
		[]byte{opGlobal, g, opEqz, opIf, typeI32},
		i32(1), []byte{opSetGlob, g},
		i32(ptr),
		[]byte{opElse}, i32(0), []byte{opEnd},
	)
}

// stubFuncs returns a complete export set for the stub library.
func stubFuncs() map[string]stubFunc {
	funcs := make(map[string]stubFunc, len(entryPoints)+2)
	for _, ep := range entryPoints {
		f := stubFunc{params: ep.params, results: ep.results}
		if ep.results == 1 {
			f.body = i32(0)
		}
		funcs[ep.name] = f
	}

	set := func(sym symbol, body []byte) {
		f := funcs[sym.String()]
		f.body = body
		funcs[sym.String()] = f
	}

	set(symNewConfig, i32(stubConfig))
	set(symConfigReplace, i32(1))
	// first byte of the key: 'l' -> "en", 'e' -> "utf-8", otherwise NULL
	set(symConfigRetrieve, cat(
		[]byte{opLocal, 1, opLoad8U, 0, 0}, i32('l'), []byte{opEq, opIf, typeI32},
		i32(stubLang),
		[]byte{opElse},
		[]byte{opLocal, 1, opLoad8U, 0, 0}, i32('e'), []byte{opEq, opIf, typeI32},
		i32(stubEncoding),
		[]byte{opElse}, i32(0), []byte{opEnd},
		[]byte{opEnd},
	))
	set(symConfigErrorMessage, i32(stubNoError))
	set(symConfigKeyInfo, i32(stubKeyInfo))
	set(symKeyInfoEnumNext, onceThenZero(1, stubKeyInfo))
	set(symNewSpeller, i32(stubSpeller))
	set(symToSpeller, []byte{opLocal, 0})
	set(symSpellerConfig, i32(stubConfig))
	set(symSpellerErrorMessage, i32(stubNoError))
	// a word is correct when it has four bytes
	set(symSpellerCheck, cat([]byte{opLocal, 2}, i32(4), []byte{opEq}))
	set(symSpellerStoreReplacement, []byte{opLocal, 2, opLocal, 4, opAdd})
	set(symStringEnumNext, onceThenZero(2, stubEnumWord))

	// bump allocator over global 0
	funcs[guestMalloc] = stubFunc{
		params: 1, results: 1,
		body: []byte{opGlobal, 0, opGlobal, 0, opLocal, 0, opAdd, opSetGlob, 0},
	}
	funcs[guestFree] = stubFunc{params: 1}
	return funcs
}

// buildStub assembles a module exporting funcs and a one-page memory.
func buildStub(funcs map[string]stubFunc) []byte {
	names := make([]string, 0, len(funcs))
	for n := range funcs {
		names = append(names, n)
	}
	sort.Strings(names)

	var types, fsec, exports, code []byte
	for i, n := range names {
		f := funcs[n]
		types = append(types, 0x60)
		types = append(types, uleb(uint32(f.params))...)
		for j := 0; j < f.params; j++ {
			types = append(types, typeI32)
		}
		types = append(types, uleb(uint32(f.results))...)
		for j := 0; j < f.results; j++ {
			types = append(types, typeI32)
		}

		fsec = append(fsec, uleb(uint32(i))...)
		exports = cat(exports, name(n), []byte{0x00}, uleb(uint32(i)))

		body := cat([]byte{0x00}, f.body, []byte{opEnd})
		code = cat(code, uleb(uint32(len(body))), body)
	}
	exports = cat(exports, name(guestMemory), []byte{0x02, 0x00})

	var globals []byte
	for _, init := range []int32{stubHeapStart, 0, 0} {
		globals = cat(globals, []byte{typeI32, 0x01}, i32(init), []byte{opEnd})
	}

	data := stubData()
	offsets := make([]int, 0, len(data))
	for off := range data {
		offsets = append(offsets, int(off))
	}
	sort.Ints(offsets)
	var dsec []byte
	for _, off := range offsets {
		b := data[uint32(off)]
		dsec = cat(dsec, []byte{0x00}, i32(int32(off)), []byte{opEnd}, uleb(uint32(len(b))), b)
	}

	return cat(
		[]byte("\x00asm\x01\x00\x00\x00"),
		section(1, len(names), types),
		section(3, len(names), fsec),
		section(5, 1, []byte{0x00, 0x01}),
		section(6, 3, globals),
		section(7, len(names)+1, exports),
		section(10, len(names), code),
		section(11, len(offsets), dsec),
	)
}
