package aspell

// Opaque engine pointers. The zero value is the null pointer.
type (
	ConfigPtr       uintptr
	SpellerPtr      uintptr
	CanHaveErrorPtr uintptr
	WordListPtr     uintptr
	StringEnumPtr   uintptr
	KeyInfoEnumPtr  uintptr
)

// KeyInfoType is the kind tag of a configuration key descriptor.
// Values follow enum AspellKeyInfoType in aspell.h.
type KeyInfoType int32

const (
	KeyInfoString KeyInfoType = iota
	KeyInfoInt
	KeyInfoBool
	KeyInfoList
)

func (t KeyInfoType) String() string {
	switch t {
	case KeyInfoString:
		return "string"
	case KeyInfoInt:
		return "integer"
	case KeyInfoBool:
		return "boolean"
	case KeyInfoList:
		return "list"
	default:
		return "unknown"
	}
}

// KeyInfo is a copy of one AspellKeyInfo record.
type KeyInfo struct {
	Name      string
	Default   string
	Desc      string
	Type      KeyInfoType
	Flags     int32
	OtherData int32
}

// Engine is the raw entry-point surface of the spell-checking engine.
//
// Methods map one to one onto the C functions of the same name. They perform
// no validation and no error-surface checks; callers own every pointer they
// receive unless documented as borrowed. Words are passed in the engine's
// encoding.
type Engine interface {
	NewConfig() ConfigPtr
	DeleteConfig(c ConfigPtr)
	ConfigReplace(c ConfigPtr, key, value string) bool
	// ConfigRetrieve returns false when the engine returned NULL.
	ConfigRetrieve(c ConfigPtr, key string) (string, bool)
	ConfigErrorNumber(c ConfigPtr) uint32
	ConfigErrorMessage(c ConfigPtr) string
	ConfigKeyInfo(c ConfigPtr, key string) (KeyInfo, bool)
	ConfigPossibleElements(c ConfigPtr, includeExtra bool) KeyInfoEnumPtr

	KeyInfoEnumNext(e KeyInfoEnumPtr) (KeyInfo, bool)
	DeleteKeyInfoEnum(e KeyInfoEnumPtr)

	NewSpeller(c ConfigPtr) CanHaveErrorPtr
	ErrorNumber(e CanHaveErrorPtr) uint32
	ErrorMessage(e CanHaveErrorPtr) string
	DeleteCanHaveError(e CanHaveErrorPtr)
	ToSpeller(e CanHaveErrorPtr) SpellerPtr
	DeleteSpeller(s SpellerPtr)
	// SpellerConfig returns the speller's own configuration. The pointer is
	// borrowed and must not be deleted.
	SpellerConfig(s SpellerPtr) ConfigPtr

	SpellerCheck(s SpellerPtr, word []byte) int32
	SpellerSuggest(s SpellerPtr, word []byte) WordListPtr
	SpellerMainWordList(s SpellerPtr) WordListPtr
	SpellerPersonalWordList(s SpellerPtr) WordListPtr
	SpellerSessionWordList(s SpellerPtr) WordListPtr
	SpellerAddToPersonal(s SpellerPtr, word []byte) int32
	SpellerAddToSession(s SpellerPtr, word []byte) int32
	SpellerClearSession(s SpellerPtr) int32
	SpellerSaveAllWordLists(s SpellerPtr) int32
	SpellerStoreReplacement(s SpellerPtr, mis, cor []byte) int32
	SpellerErrorNumber(s SpellerPtr) uint32
	SpellerErrorMessage(s SpellerPtr) string

	// WordListElements returns a new enumeration over a borrowed word list.
	WordListElements(wl WordListPtr) StringEnumPtr
	StringEnumNext(e StringEnumPtr) ([]byte, bool)
	DeleteStringEnum(e StringEnumPtr)
}

// Faulter is implemented by engines whose calls can fail outside the
// engine's own error surface, such as a wasm guest that traps. A failed call
// returns a zero result, so callers compare Faults before and after.
type Faulter interface {
	// Faults returns how many faults have been recorded and the latest one.
	Faults() (int, error)
}
