// Package aspell provides Go bindings for the GNU Aspell spell-checking engine.
//
// The engine is reached only through its C ABI. This module wraps the handles,
// enumerations and typed configuration values that the engine produces and
// converts its side-channel error reporting into ordinary Go errors.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	aspell/              Root package with the raw Engine entry-point surface
//	├── engine/          Engine loaders: shared library (cgo) and wasm (wazero)
//	├── speller/         High-level API: Library, Config and Speller handles
//	├── enum/            Drains native enumerations into Go slices
//	├── keyinfo/         Typed decoding of configuration key descriptors
//	├── codec/           Conversion between Go strings and the engine encoding
//	├── resource/        Ownership ledger for native handles
//	├── config/          TOML configuration for tools
//	└── errors/          Structured error types
//
// # Quick Start
//
//	eng, err := engine.OpenShared("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	lib := speller.Open(eng)
//	defer lib.Close()
//
//	sp, err := speller.New(lib, speller.Opt("lang", "en"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sp.Release()
//
//	ok, err := sp.Check("word")
//	suggestions, err := sp.Suggest("wrod")
//
// # Ownership
//
// Every native object (configuration, speller, enumeration) is owned by exactly
// one Go value and destroyed exactly once. Enumerations never escape: they are
// drained into slices and destroyed before the slice is returned.
//
// # Thread Safety
//
// Library is safe for concurrent use. A Speller serialises its own native calls
// with a mutex, so it may be shared between goroutines, but calls never overlap.
package aspell
