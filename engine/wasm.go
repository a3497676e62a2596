package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/wippyai/aspell-go"
	"github.com/wippyai/aspell-go/errors"
)

const (
	guestMalloc = "malloc"
	guestFree   = "free"
	guestMemory = "memory"

	// keyInfoSize is sizeof(AspellKeyInfo) on wasm32.
	keyInfoSize = 24

	maxCString = 1 << 20
)

// WasmConfig configures OpenWasm.
type WasmConfig struct {
	// Dirs maps host directories to guest paths, typically the dictionary
	// directory and the location of personal word lists.
	Dirs map[string]string

	// Env sets guest environment variables such as HOME.
	Env map[string]string

	Stdout io.Writer
	Stderr io.Writer

	// MemoryLimitPages caps guest memory in 64KiB pages. 0 keeps the
	// wazero default.
	MemoryLimitPages uint32
}

// Wasm runs a wasm32-wasi build of libaspell.
//
// The guest is single threaded; calls are serialised.
type Wasm struct {
	runtime wazero.Runtime
	mod     api.Module
	mem     api.Memory
	ctx     context.Context
	fault   error
	last    error
	faults  int
	fn      [numSymbols]api.Function
	malloc  api.Function
	free    api.Function
	mu      sync.Mutex
}

var (
	_ Loaded         = (*Wasm)(nil)
	_ aspell.Faulter = (*Wasm)(nil)
)

// OpenWasm compiles and instantiates wasmBytes. The module's _initialize
// export, if any, runs during instantiation.
func OpenWasm(ctx context.Context, wasmBytes []byte, cfg WasmConfig) (*Wasm, error) {
	rc := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		rc = rc.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	r := wazero.NewRuntimeWithConfig(ctx, rc)

	w, err := instantiate(ctx, r, wasmBytes, cfg)
	if err != nil {
		_ = r.Close(ctx)
		return nil, err
	}
	return w, nil
}

func instantiate(ctx context.Context, r wazero.Runtime, wasmBytes []byte, cfg WasmConfig) (*Wasm, error) {
	compiled, err := r.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, errors.Load("compile wasm module", err)
	}
	if err := checkExports(compiled); err != nil {
		return nil, err
	}

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		return nil, errors.Load("instantiate WASI", err)
	}

	mc := wazero.NewModuleConfig().
		WithName("libaspell").
		WithStartFunctions("_initialize")
	if len(cfg.Dirs) > 0 {
		fs := wazero.NewFSConfig()
		for _, host := range sortedKeys(cfg.Dirs) {
			fs = fs.WithDirMount(host, cfg.Dirs[host])
		}
		mc = mc.WithFSConfig(fs)
	}
	for _, k := range sortedKeys(cfg.Env) {
		mc = mc.WithEnv(k, cfg.Env[k])
	}
	if cfg.Stdout != nil {
		mc = mc.WithStdout(cfg.Stdout)
	}
	if cfg.Stderr != nil {
		mc = mc.WithStderr(cfg.Stderr)
	}

	mod, err := r.InstantiateModule(ctx, compiled, mc)
	if err != nil {
		return nil, errors.Load("instantiate wasm module", err)
	}

	w := &Wasm{
		runtime: r,
		mod:     mod,
		mem:     mod.ExportedMemory(guestMemory),
		ctx:     context.WithoutCancel(ctx),
		malloc:  mod.ExportedFunction(guestMalloc),
		free:    mod.ExportedFunction(guestFree),
	}
	for i, ep := range entryPoints {
		w.fn[i] = mod.ExportedFunction(ep.name)
	}
	Logger().Debug("instantiated wasm library",
		zap.Uint32("memory_bytes", w.mem.Size()))
	return w, nil
}

// checkExports verifies every required export exists with the right arity.
func checkExports(compiled wazero.CompiledModule) error {
	funcs := compiled.ExportedFunctions()

	var missing []string
	check := func(name string, params, results int) {
		def, ok := funcs[name]
		switch {
		case !ok:
			missing = append(missing, name)
		case len(def.ParamTypes()) != params || len(def.ResultTypes()) != results:
			missing = append(missing, fmt.Sprintf("%s (want %d params %d results, got %d/%d)",
				name, params, results, len(def.ParamTypes()), len(def.ResultTypes())))
		}
	}
	for _, ep := range entryPoints {
		check(ep.name, ep.params, ep.results)
	}
	check(guestMalloc, 1, 1)
	check(guestFree, 1, 0)
	if _, ok := compiled.ExportedMemories()[guestMemory]; !ok {
		missing = append(missing, guestMemory)
	}

	if len(missing) > 0 {
		return &errors.MissingSymbolsError{Library: "wasm module", Symbols: missing}
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Err returns the first guest fault, if any.
func (w *Wasm) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fault
}

// Faults returns the number of guest faults so far and the most recent one.
func (w *Wasm) Faults() (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.faults, w.last
}

// Close tears down the guest and its runtime.
func (w *Wasm) Close(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.runtime == nil {
		return nil
	}
	err := w.runtime.Close(ctx)
	w.runtime, w.mod, w.mem = nil, nil, nil
	return err
}

func (w *Wasm) fail(what string, err error) {
	Logger().Error("wasm guest fault", zap.String("call", what), zap.Error(err))
	w.faults++
	w.last = errors.Wrap(errors.PhaseOperation, errors.KindEngine, err, what)
	if w.fault == nil {
		w.fault = w.last
	}
}

// call invokes an entry point. The caller holds w.mu.
func (w *Wasm) call(sym symbol, args ...uint64) uint64 {
	if w.mod == nil {
		w.fail(sym.String(), fmt.Errorf("engine closed"))
		return 0
	}
	res, err := w.fn[sym].Call(w.ctx, args...)
	if err != nil {
		w.fail(sym.String(), err)
		return 0
	}
	if len(res) == 0 {
		return 0
	}
	return res[0]
}

// lock acquires w.mu and returns the matching unlock, for use with defer.
func (w *Wasm) lock() func() {
	w.mu.Lock()
	return w.mu.Unlock
}

// cstring copies b plus a NUL terminator into guest memory.
// It returns 0 after recording a fault.
func (w *Wasm) cstring(b []byte) uint32 {
	if w.mod == nil {
		w.fail(guestMalloc, fmt.Errorf("engine closed"))
		return 0
	}
	res, err := w.malloc.Call(w.ctx, uint64(len(b)+1))
	if err != nil {
		w.fail(guestMalloc, err)
		return 0
	}
	p := uint32(res[0])
	if p == 0 {
		w.fail(guestMalloc, fmt.Errorf("out of guest memory allocating %d bytes", len(b)+1))
		return 0
	}
	buf := make([]byte, len(b)+1)
	copy(buf, b)
	if !w.mem.Write(p, buf) {
		w.fail(guestMalloc, fmt.Errorf("write of %d bytes at %#x out of range", len(buf), p))
		w.release(p)
		return 0
	}
	return p
}

func (w *Wasm) release(p uint32) {
	if p == 0 || w.mod == nil {
		return
	}
	if _, err := w.free.Call(w.ctx, uint64(p)); err != nil {
		w.fail(guestFree, err)
	}
}

// withStrings copies every string into the guest, runs fn with their
// addresses and lengths, then frees them. fn is skipped if any copy failed.
func (w *Wasm) withStrings(fn func(ptrs []uint32) uint64, strs ...[]byte) uint64 {
	ptrs := make([]uint32, len(strs))
	defer func() {
		for _, p := range ptrs {
			w.release(p)
		}
	}()
	for i, s := range strs {
		if ptrs[i] = w.cstring(s); ptrs[i] == 0 {
			return 0
		}
	}
	return fn(ptrs)
}

// guestMemoryReader is the subset of api.Memory used to read results.
type guestMemoryReader interface {
	Size() uint32
	Read(offset, byteCount uint32) ([]byte, bool)
	ReadUint32Le(offset uint32) (uint32, bool)
}

// readCString copies the NUL-terminated string at ptr.
func readCString(mem guestMemoryReader, ptr uint32) ([]byte, bool) {
	if ptr == 0 {
		return nil, false
	}
	size := mem.Size()
	var out []byte
	for off := ptr; off < size; {
		n := min(256, size-off)
		chunk, ok := mem.Read(off, n)
		if !ok {
			return nil, false
		}
		if i := bytes.IndexByte(chunk, 0); i >= 0 {
			return append(out, chunk[:i]...), true
		}
		out = append(out, chunk...)
		if len(out) > maxCString {
			return nil, false
		}
		off += n
	}
	return nil, false
}

// readKeyInfo decodes a wasm32 AspellKeyInfo:
//
//	0 name  4 type  8 def  12 desc  16 flags  20 other_data
func readKeyInfo(mem guestMemoryReader, ptr uint32) (aspell.KeyInfo, bool) {
	if ptr == 0 {
		return aspell.KeyInfo{}, false
	}
	var f [keyInfoSize / 4]uint32
	for i := range f {
		v, ok := mem.ReadUint32Le(ptr + uint32(i*4))
		if !ok {
			return aspell.KeyInfo{}, false
		}
		f[i] = v
	}
	str := func(p uint32) string {
		b, _ := readCString(mem, p)
		return string(b)
	}
	return aspell.KeyInfo{
		Name:      str(f[0]),
		Type:      aspell.KeyInfoType(int32(f[1])),
		Default:   str(f[2]),
		Desc:      str(f[3]),
		Flags:     int32(f[4]),
		OtherData: int32(f[5]),
	}, true
}

func (w *Wasm) str(p uint64) (string, bool) {
	if p == 0 || w.mem == nil {
		return "", false
	}
	b, ok := readCString(w.mem, uint32(p))
	if !ok {
		w.fail("read string", fmt.Errorf("unterminated string at %#x", p))
		return "", false
	}
	return string(b), true
}

func (w *Wasm) keyInfo(p uint64) (aspell.KeyInfo, bool) {
	if p == 0 || w.mem == nil {
		return aspell.KeyInfo{}, false
	}
	ki, ok := readKeyInfo(w.mem, uint32(p))
	if !ok {
		w.fail("read key info", fmt.Errorf("key info at %#x out of range", p))
	}
	return ki, ok
}

func (w *Wasm) NewConfig() aspell.ConfigPtr {
	defer w.lock()()
	return aspell.ConfigPtr(w.call(symNewConfig))
}

func (w *Wasm) DeleteConfig(c aspell.ConfigPtr) {
	defer w.lock()()
	w.call(symDeleteConfig, uint64(c))
}

func (w *Wasm) ConfigReplace(c aspell.ConfigPtr, key, value string) bool {
	defer w.lock()()
	return w.withStrings(func(p []uint32) uint64 {
		return w.call(symConfigReplace, uint64(c), uint64(p[0]), uint64(p[1]))
	}, []byte(key), []byte(value)) != 0
}

func (w *Wasm) ConfigRetrieve(c aspell.ConfigPtr, key string) (string, bool) {
	defer w.lock()()
	return w.str(w.withStrings(func(p []uint32) uint64 {
		return w.call(symConfigRetrieve, uint64(c), uint64(p[0]))
	}, []byte(key)))
}

func (w *Wasm) ConfigErrorNumber(c aspell.ConfigPtr) uint32 {
	defer w.lock()()
	return uint32(w.call(symConfigErrorNumber, uint64(c)))
}

func (w *Wasm) ConfigErrorMessage(c aspell.ConfigPtr) string {
	defer w.lock()()
	msg, _ := w.str(w.call(symConfigErrorMessage, uint64(c)))
	return msg
}

func (w *Wasm) ConfigKeyInfo(c aspell.ConfigPtr, key string) (aspell.KeyInfo, bool) {
	defer w.lock()()
	return w.keyInfo(w.withStrings(func(p []uint32) uint64 {
		return w.call(symConfigKeyInfo, uint64(c), uint64(p[0]))
	}, []byte(key)))
}

func (w *Wasm) ConfigPossibleElements(c aspell.ConfigPtr, includeExtra bool) aspell.KeyInfoEnumPtr {
	defer w.lock()()
	var extra uint64
	if includeExtra {
		extra = 1
	}
	return aspell.KeyInfoEnumPtr(w.call(symConfigPossibleElements, uint64(c), extra))
}

func (w *Wasm) KeyInfoEnumNext(e aspell.KeyInfoEnumPtr) (aspell.KeyInfo, bool) {
	defer w.lock()()
	return w.keyInfo(w.call(symKeyInfoEnumNext, uint64(e)))
}

func (w *Wasm) DeleteKeyInfoEnum(e aspell.KeyInfoEnumPtr) {
	defer w.lock()()
	w.call(symDeleteKeyInfoEnum, uint64(e))
}

func (w *Wasm) NewSpeller(c aspell.ConfigPtr) aspell.CanHaveErrorPtr {
	defer w.lock()()
	return aspell.CanHaveErrorPtr(w.call(symNewSpeller, uint64(c)))
}

func (w *Wasm) ErrorNumber(e aspell.CanHaveErrorPtr) uint32 {
	defer w.lock()()
	return uint32(w.call(symErrorNumber, uint64(e)))
}

func (w *Wasm) ErrorMessage(e aspell.CanHaveErrorPtr) string {
	defer w.lock()()
	msg, _ := w.str(w.call(symErrorMessage, uint64(e)))
	return msg
}

func (w *Wasm) DeleteCanHaveError(e aspell.CanHaveErrorPtr) {
	defer w.lock()()
	w.call(symDeleteCanHaveError, uint64(e))
}

func (w *Wasm) ToSpeller(e aspell.CanHaveErrorPtr) aspell.SpellerPtr {
	defer w.lock()()
	return aspell.SpellerPtr(w.call(symToSpeller, uint64(e)))
}

func (w *Wasm) DeleteSpeller(s aspell.SpellerPtr) {
	defer w.lock()()
	w.call(symDeleteSpeller, uint64(s))
}

func (w *Wasm) SpellerConfig(s aspell.SpellerPtr) aspell.ConfigPtr {
	defer w.lock()()
	return aspell.ConfigPtr(w.call(symSpellerConfig, uint64(s)))
}

// word passes one word as (ptr, size).
func (w *Wasm) word(sym symbol, s aspell.SpellerPtr, word []byte) uint64 {
	defer w.lock()()
	return w.withStrings(func(p []uint32) uint64 {
		return w.call(sym, uint64(s), uint64(p[0]), uint64(len(word)))
	}, word)
}

// SpellerCheck returns -1 when the guest faults, as the engine does on error.
func (w *Wasm) SpellerCheck(s aspell.SpellerPtr, word []byte) int32 {
	defer w.lock()()
	before := w.faults
	r := int32(uint32(w.withStrings(func(p []uint32) uint64 {
		return w.call(symSpellerCheck, uint64(s), uint64(p[0]), uint64(len(word)))
	}, word)))
	if w.faults != before {
		return -1
	}
	return r
}

func (w *Wasm) SpellerSuggest(s aspell.SpellerPtr, word []byte) aspell.WordListPtr {
	return aspell.WordListPtr(w.word(symSpellerSuggest, s, word))
}

func (w *Wasm) SpellerMainWordList(s aspell.SpellerPtr) aspell.WordListPtr {
	defer w.lock()()
	return aspell.WordListPtr(w.call(symSpellerMainWordList, uint64(s)))
}

func (w *Wasm) SpellerPersonalWordList(s aspell.SpellerPtr) aspell.WordListPtr {
	defer w.lock()()
	return aspell.WordListPtr(w.call(symSpellerPersonalWordList, uint64(s)))
}

func (w *Wasm) SpellerSessionWordList(s aspell.SpellerPtr) aspell.WordListPtr {
	defer w.lock()()
	return aspell.WordListPtr(w.call(symSpellerSessionWordList, uint64(s)))
}

func (w *Wasm) SpellerAddToPersonal(s aspell.SpellerPtr, word []byte) int32 {
	return int32(uint32(w.word(symSpellerAddToPersonal, s, word)))
}

func (w *Wasm) SpellerAddToSession(s aspell.SpellerPtr, word []byte) int32 {
	return int32(uint32(w.word(symSpellerAddToSession, s, word)))
}

func (w *Wasm) SpellerClearSession(s aspell.SpellerPtr) int32 {
	defer w.lock()()
	return int32(uint32(w.call(symSpellerClearSession, uint64(s))))
}

func (w *Wasm) SpellerSaveAllWordLists(s aspell.SpellerPtr) int32 {
	defer w.lock()()
	return int32(uint32(w.call(symSpellerSaveAll, uint64(s))))
}

func (w *Wasm) SpellerStoreReplacement(s aspell.SpellerPtr, mis, cor []byte) int32 {
	defer w.lock()()
	return int32(uint32(w.withStrings(func(p []uint32) uint64 {
		return w.call(symSpellerStoreReplacement,
			uint64(s), uint64(p[0]), uint64(len(mis)), uint64(p[1]), uint64(len(cor)))
	}, mis, cor)))
}

func (w *Wasm) SpellerErrorNumber(s aspell.SpellerPtr) uint32 {
	defer w.lock()()
	return uint32(w.call(symSpellerErrorNumber, uint64(s)))
}

func (w *Wasm) SpellerErrorMessage(s aspell.SpellerPtr) string {
	defer w.lock()()
	msg, _ := w.str(w.call(symSpellerErrorMessage, uint64(s)))
	return msg
}

func (w *Wasm) WordListElements(wl aspell.WordListPtr) aspell.StringEnumPtr {
	defer w.lock()()
	return aspell.StringEnumPtr(w.call(symWordListElements, uint64(wl)))
}

func (w *Wasm) StringEnumNext(e aspell.StringEnumPtr) ([]byte, bool) {
	defer w.lock()()
	p := w.call(symStringEnumNext, uint64(e))
	if p == 0 || w.mem == nil {
		return nil, false
	}
	b, ok := readCString(w.mem, uint32(p))
	if !ok {
		w.fail("read string", fmt.Errorf("unterminated string at %#x", p))
	}
	return b, ok
}

func (w *Wasm) DeleteStringEnum(e aspell.StringEnumPtr) {
	defer w.lock()()
	w.call(symDeleteStringEnum, uint64(e))
}
