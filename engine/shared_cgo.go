//go:build cgo && (linux || darwin || freebsd)

package engine

/*
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdint.h>
#include <stdlib.h>

typedef struct {
	const char* name;
	int type;
	const char* def;
	const char* desc;
	int flags;
	int other_data;
} as_key_info;

static void* as_dlopen(const char* path) {
	return dlopen(path, RTLD_NOW | RTLD_LOCAL);
}

static const char* as_dlerror(void) {
	return dlerror();
}

static void* as_dlsym_clear(void* h, const char* name, char** err) {
	dlerror();
	void* p = dlsym(h, name);
	char* e = dlerror();
	if (e) { if (err) *err = e; return NULL; }
	if (err) *err = NULL;
	return p;
}

static int as_dlclose(void* h) {
	return dlclose(h);
}

// Trampolines. Pointers cross as uintptr_t so Go never holds a C pointer
// it did not allocate.
typedef uintptr_t (*as_fn_0)(void);
typedef uintptr_t (*as_fn_1)(uintptr_t);
typedef void (*as_fn_1v)(uintptr_t);
typedef uintptr_t (*as_fn_2s)(uintptr_t, const char*);
typedef uintptr_t (*as_fn_2i)(uintptr_t, int);
typedef int (*as_fn_3ss)(uintptr_t, const char*, const char*);
typedef int (*as_fn_3w)(uintptr_t, const char*, int);
typedef uintptr_t (*as_fn_3wp)(uintptr_t, const char*, int);
typedef int (*as_fn_5ww)(uintptr_t, const char*, int, const char*, int);

static uintptr_t as_call_0(void* fn) { return ((as_fn_0)fn)(); }
static uintptr_t as_call_1(void* fn, uintptr_t a) { return ((as_fn_1)fn)(a); }
static void as_call_1v(void* fn, uintptr_t a) { ((as_fn_1v)fn)(a); }
static unsigned int as_call_1u(void* fn, uintptr_t a) { return ((unsigned int (*)(uintptr_t))fn)(a); }
static int as_call_1i(void* fn, uintptr_t a) { return ((int (*)(uintptr_t))fn)(a); }
static uintptr_t as_call_2s(void* fn, uintptr_t a, const char* s) { return ((as_fn_2s)fn)(a, s); }
static uintptr_t as_call_2i(void* fn, uintptr_t a, int i) { return ((as_fn_2i)fn)(a, i); }
static int as_call_3ss(void* fn, uintptr_t a, const char* k, const char* v) { return ((as_fn_3ss)fn)(a, k, v); }
static int as_call_3w(void* fn, uintptr_t a, const char* w, int n) { return ((as_fn_3w)fn)(a, w, n); }
static uintptr_t as_call_3wp(void* fn, uintptr_t a, const char* w, int n) { return ((as_fn_3wp)fn)(a, w, n); }
static int as_call_5ww(void* fn, uintptr_t a, const char* m, int mn, const char* c, int cn) {
	return ((as_fn_5ww)fn)(a, m, mn, c, cn);
}

static const char* as_str(uintptr_t p) { return (const char*)p; }
static as_key_info as_ki(uintptr_t p) { return *(const as_key_info*)p; }
*/
import "C"

import (
	"context"
	"strings"
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/aspell-go"
	"github.com/wippyai/aspell-go/errors"
)

// Shared is libaspell loaded with dlopen.
type Shared struct {
	handle unsafe.Pointer
	fn     [numSymbols]unsafe.Pointer
	path   string
	mu     sync.Mutex
}

var _ Loaded = (*Shared)(nil)

// OpenShared loads the library at path, or the one Find locates when path is
// empty. Every entry point is resolved before it returns.
func OpenShared(path string) (*Shared, error) {
	paths, err := candidates(path)
	if err != nil {
		return nil, err
	}

	var reasons []string
	for _, p := range paths {
		cpath := C.CString(p)
		h := C.as_dlopen(cpath)
		C.free(unsafe.Pointer(cpath))
		if h == nil {
			reasons = append(reasons, C.GoString(C.as_dlerror()))
			continue
		}

		s := &Shared{handle: h, path: p}
		if err := s.resolve(); err != nil {
			C.as_dlclose(h)
			return nil, err
		}
		Logger().Debug("loaded shared library", zap.String("path", p))
		return s, nil
	}
	return nil, errors.Load("cannot load libaspell: "+strings.Join(reasons, "; "), nil)
}

func (s *Shared) resolve() error {
	var missing []string
	for i, ep := range entryPoints {
		cname := C.CString(ep.name)
		var cerr *C.char
		p := C.as_dlsym_clear(s.handle, cname, &cerr)
		C.free(unsafe.Pointer(cname))
		if p == nil {
			missing = append(missing, ep.name)
			continue
		}
		s.fn[i] = p
	}
	if len(missing) > 0 {
		return &errors.MissingSymbolsError{Library: s.path, Symbols: missing}
	}
	return nil
}

// Path returns the file that was loaded.
func (s *Shared) Path() string {
	return s.path
}

// Close unloads the library. Objects created through it must already be
// destroyed.
func (s *Shared) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil {
		return nil
	}
	rc := C.as_dlclose(s.handle)
	s.handle = nil
	if rc != 0 {
		return errors.Load("dlclose failed: "+C.GoString(C.as_dlerror()), nil)
	}
	return nil
}

func (s *Shared) f(sym symbol) unsafe.Pointer {
	return s.fn[sym]
}

func goString(p C.uintptr_t) (string, bool) {
	if p == 0 {
		return "", false
	}
	return C.GoString(C.as_str(p)), true
}

// cword copies b into C memory with a terminating NUL.
func cword(b []byte) (*C.char, C.int) {
	buf := make([]byte, len(b)+1)
	copy(buf, b)
	return (*C.char)(C.CBytes(buf)), C.int(len(b))
}

func (s *Shared) NewConfig() aspell.ConfigPtr {
	return aspell.ConfigPtr(C.as_call_0(s.f(symNewConfig)))
}

func (s *Shared) DeleteConfig(c aspell.ConfigPtr) {
	C.as_call_1v(s.f(symDeleteConfig), C.uintptr_t(c))
}

func (s *Shared) ConfigReplace(c aspell.ConfigPtr, key, value string) bool {
	k, v := C.CString(key), C.CString(value)
	defer C.free(unsafe.Pointer(k))
	defer C.free(unsafe.Pointer(v))
	return C.as_call_3ss(s.f(symConfigReplace), C.uintptr_t(c), k, v) != 0
}

func (s *Shared) ConfigRetrieve(c aspell.ConfigPtr, key string) (string, bool) {
	k := C.CString(key)
	defer C.free(unsafe.Pointer(k))
	return goString(C.as_call_2s(s.f(symConfigRetrieve), C.uintptr_t(c), k))
}

func (s *Shared) ConfigErrorNumber(c aspell.ConfigPtr) uint32 {
	return uint32(C.as_call_1u(s.f(symConfigErrorNumber), C.uintptr_t(c)))
}

func (s *Shared) ConfigErrorMessage(c aspell.ConfigPtr) string {
	msg, _ := goString(C.as_call_1(s.f(symConfigErrorMessage), C.uintptr_t(c)))
	return msg
}

func keyInfo(p C.uintptr_t) (aspell.KeyInfo, bool) {
	if p == 0 {
		return aspell.KeyInfo{}, false
	}
	ki := C.as_ki(p)
	out := aspell.KeyInfo{
		Type:      aspell.KeyInfoType(ki._type),
		Flags:     int32(ki.flags),
		OtherData: int32(ki.other_data),
	}
	if ki.name != nil {
		out.Name = C.GoString(ki.name)
	}
	if ki.def != nil {
		out.Default = C.GoString(ki.def)
	}
	if ki.desc != nil {
		out.Desc = C.GoString(ki.desc)
	}
	return out, true
}

func (s *Shared) ConfigKeyInfo(c aspell.ConfigPtr, key string) (aspell.KeyInfo, bool) {
	k := C.CString(key)
	defer C.free(unsafe.Pointer(k))
	return keyInfo(C.as_call_2s(s.f(symConfigKeyInfo), C.uintptr_t(c), k))
}

func (s *Shared) ConfigPossibleElements(c aspell.ConfigPtr, includeExtra bool) aspell.KeyInfoEnumPtr {
	var extra C.int
	if includeExtra {
		extra = 1
	}
	return aspell.KeyInfoEnumPtr(C.as_call_2i(s.f(symConfigPossibleElements), C.uintptr_t(c), extra))
}

func (s *Shared) KeyInfoEnumNext(e aspell.KeyInfoEnumPtr) (aspell.KeyInfo, bool) {
	return keyInfo(C.as_call_1(s.f(symKeyInfoEnumNext), C.uintptr_t(e)))
}

func (s *Shared) DeleteKeyInfoEnum(e aspell.KeyInfoEnumPtr) {
	C.as_call_1v(s.f(symDeleteKeyInfoEnum), C.uintptr_t(e))
}

func (s *Shared) NewSpeller(c aspell.ConfigPtr) aspell.CanHaveErrorPtr {
	return aspell.CanHaveErrorPtr(C.as_call_1(s.f(symNewSpeller), C.uintptr_t(c)))
}

func (s *Shared) ErrorNumber(e aspell.CanHaveErrorPtr) uint32 {
	return uint32(C.as_call_1u(s.f(symErrorNumber), C.uintptr_t(e)))
}

func (s *Shared) ErrorMessage(e aspell.CanHaveErrorPtr) string {
	msg, _ := goString(C.as_call_1(s.f(symErrorMessage), C.uintptr_t(e)))
	return msg
}

func (s *Shared) DeleteCanHaveError(e aspell.CanHaveErrorPtr) {
	C.as_call_1v(s.f(symDeleteCanHaveError), C.uintptr_t(e))
}

func (s *Shared) ToSpeller(e aspell.CanHaveErrorPtr) aspell.SpellerPtr {
	return aspell.SpellerPtr(C.as_call_1(s.f(symToSpeller), C.uintptr_t(e)))
}

func (s *Shared) DeleteSpeller(sp aspell.SpellerPtr) {
	C.as_call_1v(s.f(symDeleteSpeller), C.uintptr_t(sp))
}

func (s *Shared) SpellerConfig(sp aspell.SpellerPtr) aspell.ConfigPtr {
	return aspell.ConfigPtr(C.as_call_1(s.f(symSpellerConfig), C.uintptr_t(sp)))
}

func (s *Shared) SpellerCheck(sp aspell.SpellerPtr, word []byte) int32 {
	w, n := cword(word)
	defer C.free(unsafe.Pointer(w))
	return int32(C.as_call_3w(s.f(symSpellerCheck), C.uintptr_t(sp), w, n))
}

func (s *Shared) SpellerSuggest(sp aspell.SpellerPtr, word []byte) aspell.WordListPtr {
	w, n := cword(word)
	defer C.free(unsafe.Pointer(w))
	return aspell.WordListPtr(C.as_call_3wp(s.f(symSpellerSuggest), C.uintptr_t(sp), w, n))
}

func (s *Shared) SpellerMainWordList(sp aspell.SpellerPtr) aspell.WordListPtr {
	return aspell.WordListPtr(C.as_call_1(s.f(symSpellerMainWordList), C.uintptr_t(sp)))
}

func (s *Shared) SpellerPersonalWordList(sp aspell.SpellerPtr) aspell.WordListPtr {
	return aspell.WordListPtr(C.as_call_1(s.f(symSpellerPersonalWordList), C.uintptr_t(sp)))
}

func (s *Shared) SpellerSessionWordList(sp aspell.SpellerPtr) aspell.WordListPtr {
	return aspell.WordListPtr(C.as_call_1(s.f(symSpellerSessionWordList), C.uintptr_t(sp)))
}

func (s *Shared) SpellerAddToPersonal(sp aspell.SpellerPtr, word []byte) int32 {
	w, n := cword(word)
	defer C.free(unsafe.Pointer(w))
	return int32(C.as_call_3w(s.f(symSpellerAddToPersonal), C.uintptr_t(sp), w, n))
}

func (s *Shared) SpellerAddToSession(sp aspell.SpellerPtr, word []byte) int32 {
	w, n := cword(word)
	defer C.free(unsafe.Pointer(w))
	return int32(C.as_call_3w(s.f(symSpellerAddToSession), C.uintptr_t(sp), w, n))
}

func (s *Shared) SpellerClearSession(sp aspell.SpellerPtr) int32 {
	return int32(C.as_call_1i(s.f(symSpellerClearSession), C.uintptr_t(sp)))
}

func (s *Shared) SpellerSaveAllWordLists(sp aspell.SpellerPtr) int32 {
	return int32(C.as_call_1i(s.f(symSpellerSaveAll), C.uintptr_t(sp)))
}

func (s *Shared) SpellerStoreReplacement(sp aspell.SpellerPtr, mis, cor []byte) int32 {
	m, mn := cword(mis)
	defer C.free(unsafe.Pointer(m))
	c, cn := cword(cor)
	defer C.free(unsafe.Pointer(c))
	return int32(C.as_call_5ww(s.f(symSpellerStoreReplacement), C.uintptr_t(sp), m, mn, c, cn))
}

func (s *Shared) SpellerErrorNumber(sp aspell.SpellerPtr) uint32 {
	return uint32(C.as_call_1u(s.f(symSpellerErrorNumber), C.uintptr_t(sp)))
}

func (s *Shared) SpellerErrorMessage(sp aspell.SpellerPtr) string {
	msg, _ := goString(C.as_call_1(s.f(symSpellerErrorMessage), C.uintptr_t(sp)))
	return msg
}

func (s *Shared) WordListElements(wl aspell.WordListPtr) aspell.StringEnumPtr {
	return aspell.StringEnumPtr(C.as_call_1(s.f(symWordListElements), C.uintptr_t(wl)))
}

func (s *Shared) StringEnumNext(e aspell.StringEnumPtr) ([]byte, bool) {
	p := C.as_call_1(s.f(symStringEnumNext), C.uintptr_t(e))
	str, ok := goString(p)
	if !ok {
		return nil, false
	}
	return []byte(str), true
}

func (s *Shared) DeleteStringEnum(e aspell.StringEnumPtr) {
	C.as_call_1v(s.f(symDeleteStringEnum), C.uintptr_t(e))
}
