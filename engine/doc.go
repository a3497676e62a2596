// Package engine loads the spell-checking library and exposes its C entry
// points as an aspell.Engine.
//
// Two backends are provided:
//
//	OpenShared  dlopen of the native libaspell through cgo
//	OpenWasm    a wasm32-wasi reactor build of libaspell run under wazero
//
// Both resolve every entry point up front and fail with an error naming the
// missing ones, so a partially usable engine is never returned.
//
// # Library discovery
//
// OpenShared("") asks Find for a path. Find honours $ASPELL_LIBRARY, then
// looks for the usual sonames in the usual library directories:
//
//	libaspell.so.15  libaspell.so  libaspell.15.dylib  libaspell.dylib
//
// When nothing is found on disk the bare sonames are handed to the dynamic
// loader, which applies its own search path.
//
// # WebAssembly
//
// The wasm build must export memory, malloc and free alongside the aspell
// functions. Strings are copied into guest memory for each call and freed
// afterwards. Dictionaries are reached through WASI directory mounts:
//
//	eng, err := engine.OpenWasm(ctx, wasmBytes, engine.WasmConfig{
//	    Dirs: map[string]string{"/usr/lib/aspell": "/dict"},
//	})
//	...
//	lib := speller.Open(eng)
//	sp, err := speller.New(lib, speller.Opt("dict-dir", "/dict"))
//
// A guest trap is logged and remembered; the failing call returns a null or
// zero result and Err reports the first fault.
package engine
