// Package fakeengine is an in-memory aspell.Engine for tests.
//
// It keeps just enough behaviour to exercise the bindings: a fixed main
// dictionary, personal and session lists, replacement pairs, a typed key table
// with the engine's validation rules, and a personal word-list file written on
// save. Every object it hands out is counted so tests can assert that nothing
// leaked, and every destroy of an unknown or already destroyed pointer is
// recorded as a violation.
package fakeengine

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/wippyai/aspell-go"
)

// DefaultDictionary is the main word list of a new Engine.
// Order matters: suggestions follow it.
var DefaultDictionary = []string{
	"word", "trod", "flower", "tree", "rock", "ruck", "rack", "cat", "winter",
	"zoo", "mistake", "bicycle", "butter", "rudder", "gutter", "putter",
}

// DefaultKeys is the descriptor table of a new Engine. The last entry uses a
// kind tag newer than any the bindings know about.
var DefaultKeys = []aspell.KeyInfo{
	{Name: "lang", Type: aspell.KeyInfoString, Default: "en", Desc: "language code"},
	{Name: "encoding", Type: aspell.KeyInfoString, Default: "utf-8", Desc: "encoding to expect data to be in"},
	{Name: "personal", Type: aspell.KeyInfoString, Default: "", Desc: "personal dictionary file name"},
	{Name: "personal-path", Type: aspell.KeyInfoString, Default: "", Desc: ""},
	{Name: "sug-mode", Type: aspell.KeyInfoString, Default: "normal", Desc: "suggestion mode"},
	{Name: "run-together-min", Type: aspell.KeyInfoInt, Default: "3", Desc: "minimal length of interior words"},
	{Name: "clean-affixes", Type: aspell.KeyInfoBool, Default: "true", Desc: "remove invalid affix flags"},
	{Name: "ignore-case", Type: aspell.KeyInfoBool, Default: "false", Desc: "ignore case when checking words"},
	{Name: "filter", Type: aspell.KeyInfoList, Default: "url email", Desc: "add or removes a filter"},
	{Name: "x-future", Type: aspell.KeyInfoType(7), Default: "?", Desc: "kind added by a newer engine"},
}

// DefaultExtraKeys are filter options, listed only when extra keys are
// requested.
var DefaultExtraKeys = []aspell.KeyInfo{
	{Name: "email-margin", Type: aspell.KeyInfoInt, Default: "10", Desc: "num chars that can appear before the quote char"},
}

// Counts reports live objects by kind.
type Counts struct {
	Configs       int
	Spellers      int
	CanHaveErrors int
	StringEnums   int
	KeyInfoEnums  int
}

// Total returns the number of live owned objects.
func (c Counts) Total() int {
	return c.Configs + c.Spellers + c.CanHaveErrors + c.StringEnums + c.KeyInfoEnums
}

type errSurface struct {
	msg    string
	number uint32
}

func (e *errSurface) set(format string, args ...any) {
	e.number = 1
	e.msg = fmt.Sprintf(format, args...)
}

func (e *errSurface) clear() {
	e.number = 0
	e.msg = ""
}

type config struct {
	values map[string]string
	err    errSurface
	owner  aspell.SpellerPtr
}

type speller struct {
	cfg          aspell.ConfigPtr
	personal     []string
	session      []string
	replacements map[string][]string
	lists        []aspell.WordListPtr
	err          errSurface
}

type canHaveError struct {
	speller aspell.SpellerPtr
	err     errSurface
}

// Engine implements aspell.Engine in memory.
type Engine struct {
	// Dictionary is the main word list.
	Dictionary []string
	// Keys is the configuration descriptor table.
	Keys []aspell.KeyInfo
	// ExtraKeys are enumerated only with includeExtra.
	ExtraKeys []aspell.KeyInfo
	// Languages lists the values of "lang" for which a speller can be created.
	Languages []string

	// FailNewConfig makes NewConfig return null.
	FailNewConfig bool
	// FailKeyEnum makes ConfigPossibleElements return null.
	FailKeyEnum bool
	// FailOps maps a speller operation name to an error message set on the
	// speller's error surface when that operation runs.
	FailOps map[string]string

	configs     map[aspell.ConfigPtr]*config
	spellers    map[aspell.SpellerPtr]*speller
	errs        map[aspell.CanHaveErrorPtr]*canHaveError
	wordLists   map[aspell.WordListPtr][]string
	stringEnums map[aspell.StringEnumPtr][]string
	keyEnums    map[aspell.KeyInfoEnumPtr][]aspell.KeyInfo
	violations  []string
	calls       []string
	next        uintptr
	mu          sync.Mutex
}

var _ aspell.Engine = (*Engine)(nil)

// New creates an engine with the default dictionary and key table.
func New() *Engine {
	return &Engine{
		Dictionary:  slices.Clone(DefaultDictionary),
		Keys:        slices.Clone(DefaultKeys),
		ExtraKeys:   slices.Clone(DefaultExtraKeys),
		Languages:   []string{"en"},
		FailOps:     make(map[string]string),
		configs:     make(map[aspell.ConfigPtr]*config),
		spellers:    make(map[aspell.SpellerPtr]*speller),
		errs:        make(map[aspell.CanHaveErrorPtr]*canHaveError),
		wordLists:   make(map[aspell.WordListPtr][]string),
		stringEnums: make(map[aspell.StringEnumPtr][]string),
		keyEnums:    make(map[aspell.KeyInfoEnumPtr][]aspell.KeyInfo),
		next:        0x1000,
	}
}

// Live returns the number of live objects the caller owns.
// Speller configurations and word lists are owned by their speller and are
// not counted.
func (e *Engine) Live() Counts {
	e.mu.Lock()
	defer e.mu.Unlock()

	c := Counts{
		Spellers:      len(e.spellers),
		CanHaveErrors: len(e.errs),
		StringEnums:   len(e.stringEnums),
		KeyInfoEnums:  len(e.keyEnums),
	}
	for _, cfg := range e.configs {
		if cfg.owner == 0 {
			c.Configs++
		}
	}
	return c
}

// Violations returns every invalid destroy observed so far.
func (e *Engine) Violations() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.violations)
}

// Calls returns the names of the entry points called so far.
func (e *Engine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.calls)
}

// ResetCalls forgets the recorded calls.
func (e *Engine) ResetCalls() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = nil
}

func (e *Engine) enter(name string) {
	e.mu.Lock()
	e.calls = append(e.calls, name)
}

func (e *Engine) alloc() uintptr {
	e.next += 0x10
	return e.next
}

func (e *Engine) violate(format string, args ...any) {
	e.violations = append(e.violations, fmt.Sprintf(format, args...))
}

func (e *Engine) keyInfo(name string) (aspell.KeyInfo, bool) {
	for _, k := range slices.Concat(e.Keys, e.ExtraKeys) {
		if k.Name == name {
			return k, true
		}
	}
	return aspell.KeyInfo{}, false
}

func (c *config) value(k aspell.KeyInfo) string {
	if v, ok := c.values[k.Name]; ok {
		return v
	}
	if k.Name == "personal-path" {
		return c.values["personal"]
	}
	return k.Default
}

// NewConfig implements aspell.Engine.
func (e *Engine) NewConfig() aspell.ConfigPtr {
	e.enter("new_aspell_config")
	defer e.mu.Unlock()

	if e.FailNewConfig {
		return 0
	}
	p := aspell.ConfigPtr(e.alloc())
	e.configs[p] = &config{values: make(map[string]string)}
	return p
}

// DeleteConfig implements aspell.Engine.
func (e *Engine) DeleteConfig(c aspell.ConfigPtr) {
	e.enter("delete_aspell_config")
	defer e.mu.Unlock()

	cfg, ok := e.configs[c]
	if !ok {
		e.violate("delete_aspell_config: unknown config %#x", c)
		return
	}
	if cfg.owner != 0 {
		e.violate("delete_aspell_config: config %#x is owned by speller %#x", c, cfg.owner)
		return
	}
	delete(e.configs, c)
}

func (e *Engine) config(op string, c aspell.ConfigPtr) *config {
	cfg, ok := e.configs[c]
	if !ok {
		e.violate("%s: unknown config %#x", op, c)
		return nil
	}
	return cfg
}

// ConfigReplace implements aspell.Engine.
func (e *Engine) ConfigReplace(c aspell.ConfigPtr, key, value string) bool {
	e.enter("aspell_config_replace")
	defer e.mu.Unlock()

	cfg := e.config("aspell_config_replace", c)
	if cfg == nil {
		return false
	}
	k, ok := e.keyInfo(key)
	if !ok {
		cfg.err.set("The key \"%s\" is unknown.", key)
		return false
	}
	switch k.Type {
	case aspell.KeyInfoInt:
		if _, err := strconv.Atoi(value); err != nil {
			cfg.err.set("The value \"%s\" is not a valid integer.", value)
			return false
		}
	case aspell.KeyInfoBool:
		switch strings.ToLower(value) {
		case "true", "false":
			value = strings.ToLower(value)
		default:
			cfg.err.set("\"%s\" is not a valid boolean value.", value)
			return false
		}
	}
	cfg.values[key] = value
	cfg.err.clear()
	return true
}

// ConfigRetrieve implements aspell.Engine.
func (e *Engine) ConfigRetrieve(c aspell.ConfigPtr, key string) (string, bool) {
	e.enter("aspell_config_retrieve")
	defer e.mu.Unlock()

	cfg := e.config("aspell_config_retrieve", c)
	if cfg == nil {
		return "", false
	}
	k, ok := e.keyInfo(key)
	if !ok {
		cfg.err.set("The key \"%s\" is unknown.", key)
		return "", false
	}
	if k.Type == aspell.KeyInfoList {
		cfg.err.set("The key \"%s\" is not a string.", key)
		return "", false
	}
	cfg.err.clear()
	return cfg.value(k), true
}

// ConfigErrorNumber implements aspell.Engine.
func (e *Engine) ConfigErrorNumber(c aspell.ConfigPtr) uint32 {
	e.enter("aspell_config_error_number")
	defer e.mu.Unlock()

	if cfg := e.config("aspell_config_error_number", c); cfg != nil {
		return cfg.err.number
	}
	return 0
}

// ConfigErrorMessage implements aspell.Engine.
func (e *Engine) ConfigErrorMessage(c aspell.ConfigPtr) string {
	e.enter("aspell_config_error_message")
	defer e.mu.Unlock()

	if cfg := e.config("aspell_config_error_message", c); cfg != nil {
		return cfg.err.msg
	}
	return ""
}

// ConfigKeyInfo implements aspell.Engine.
func (e *Engine) ConfigKeyInfo(c aspell.ConfigPtr, key string) (aspell.KeyInfo, bool) {
	e.enter("aspell_config_keyinfo")
	defer e.mu.Unlock()

	cfg := e.config("aspell_config_keyinfo", c)
	if cfg == nil {
		return aspell.KeyInfo{}, false
	}
	k, ok := e.keyInfo(key)
	if !ok {
		cfg.err.set("The key \"%s\" is unknown.", key)
		return aspell.KeyInfo{}, false
	}
	cfg.err.clear()
	return k, true
}

// ConfigPossibleElements implements aspell.Engine.
func (e *Engine) ConfigPossibleElements(c aspell.ConfigPtr, includeExtra bool) aspell.KeyInfoEnumPtr {
	e.enter("aspell_config_possible_elements")
	defer e.mu.Unlock()

	if e.config("aspell_config_possible_elements", c) == nil || e.FailKeyEnum {
		return 0
	}
	p := aspell.KeyInfoEnumPtr(e.alloc())
	keys := slices.Clone(e.Keys)
	if includeExtra {
		keys = append(keys, e.ExtraKeys...)
	}
	e.keyEnums[p] = keys
	return p
}

// KeyInfoEnumNext implements aspell.Engine.
func (e *Engine) KeyInfoEnumNext(p aspell.KeyInfoEnumPtr) (aspell.KeyInfo, bool) {
	e.enter("aspell_key_info_enumeration_next")
	defer e.mu.Unlock()

	rest, ok := e.keyEnums[p]
	if !ok {
		e.violate("aspell_key_info_enumeration_next: unknown enumeration %#x", p)
		return aspell.KeyInfo{}, false
	}
	if len(rest) == 0 {
		return aspell.KeyInfo{}, false
	}
	e.keyEnums[p] = rest[1:]
	return rest[0], true
}

// DeleteKeyInfoEnum implements aspell.Engine.
func (e *Engine) DeleteKeyInfoEnum(p aspell.KeyInfoEnumPtr) {
	e.enter("delete_aspell_key_info_enumeration")
	defer e.mu.Unlock()

	if _, ok := e.keyEnums[p]; !ok {
		e.violate("delete_aspell_key_info_enumeration: unknown enumeration %#x", p)
		return
	}
	delete(e.keyEnums, p)
}

// NewSpeller implements aspell.Engine.
func (e *Engine) NewSpeller(c aspell.ConfigPtr) aspell.CanHaveErrorPtr {
	e.enter("new_aspell_speller")
	defer e.mu.Unlock()

	src := e.config("new_aspell_speller", c)
	if src == nil {
		return 0
	}

	p := aspell.CanHaveErrorPtr(e.alloc())
	che := &canHaveError{}
	e.errs[p] = che

	lang := src.values["lang"]
	if lang == "" {
		lang = "en"
	}
	if !slices.Contains(e.Languages, lang) {
		che.err.set("No word lists can be found for the language \"%s\".", lang)
		return p
	}

	own := &config{values: make(map[string]string, len(src.values))}
	for k, v := range src.values {
		own.values[k] = v
	}
	sp := &speller{replacements: make(map[string][]string)}
	if path := own.values["personal"]; path != "" {
		words, err := readPersonal(path)
		if err != nil {
			che.err.set("%s", err.Error())
			return p
		}
		sp.personal = words
	}

	sptr := aspell.SpellerPtr(e.alloc())
	cptr := aspell.ConfigPtr(e.alloc())
	own.owner = sptr
	sp.cfg = cptr
	e.configs[cptr] = own
	e.spellers[sptr] = sp
	che.speller = sptr
	return p
}

// ErrorNumber implements aspell.Engine.
func (e *Engine) ErrorNumber(p aspell.CanHaveErrorPtr) uint32 {
	e.enter("aspell_error_number")
	defer e.mu.Unlock()

	if che, ok := e.errs[p]; ok {
		return che.err.number
	}
	e.violate("aspell_error_number: unknown object %#x", p)
	return 0
}

// ErrorMessage implements aspell.Engine.
func (e *Engine) ErrorMessage(p aspell.CanHaveErrorPtr) string {
	e.enter("aspell_error_message")
	defer e.mu.Unlock()

	if che, ok := e.errs[p]; ok {
		return che.err.msg
	}
	e.violate("aspell_error_message: unknown object %#x", p)
	return ""
}

// DeleteCanHaveError implements aspell.Engine.
func (e *Engine) DeleteCanHaveError(p aspell.CanHaveErrorPtr) {
	e.enter("delete_aspell_can_have_error")
	defer e.mu.Unlock()

	if _, ok := e.errs[p]; !ok {
		e.violate("delete_aspell_can_have_error: unknown object %#x", p)
		return
	}
	delete(e.errs, p)
}

// ToSpeller implements aspell.Engine. The can-have-error object becomes the
// speller and is no longer separately owned.
func (e *Engine) ToSpeller(p aspell.CanHaveErrorPtr) aspell.SpellerPtr {
	e.enter("to_aspell_speller")
	defer e.mu.Unlock()

	che, ok := e.errs[p]
	if !ok {
		e.violate("to_aspell_speller: unknown object %#x", p)
		return 0
	}
	if che.err.number != 0 {
		e.violate("to_aspell_speller: object %#x carries an error", p)
		return 0
	}
	delete(e.errs, p)
	return che.speller
}

// DeleteSpeller implements aspell.Engine.
func (e *Engine) DeleteSpeller(s aspell.SpellerPtr) {
	e.enter("delete_aspell_speller")
	defer e.mu.Unlock()

	sp, ok := e.spellers[s]
	if !ok {
		e.violate("delete_aspell_speller: unknown speller %#x", s)
		return
	}
	for _, wl := range sp.lists {
		delete(e.wordLists, wl)
	}
	delete(e.configs, sp.cfg)
	delete(e.spellers, s)
}

// SpellerConfig implements aspell.Engine.
func (e *Engine) SpellerConfig(s aspell.SpellerPtr) aspell.ConfigPtr {
	e.enter("aspell_speller_config")
	defer e.mu.Unlock()

	sp := e.speller("aspell_speller_config", s)
	if sp == nil {
		return 0
	}
	return sp.cfg
}

func (e *Engine) speller(op string, s aspell.SpellerPtr) *speller {
	sp, ok := e.spellers[s]
	if !ok {
		e.violate("%s: unknown speller %#x", op, s)
		return nil
	}
	return sp
}

func (e *Engine) fail(sp *speller, op string) bool {
	if msg, ok := e.FailOps[op]; ok {
		sp.err.set("%s", msg)
		return true
	}
	return false
}

func (e *Engine) option(sp *speller, key string) string {
	k, _ := e.keyInfo(key)
	return e.configs[sp.cfg].value(k)
}

func (e *Engine) known(sp *speller, word string) bool {
	match := func(w string) bool { return w == word }
	if e.option(sp, "ignore-case") == "true" {
		match = func(w string) bool { return strings.EqualFold(w, word) }
	}
	return slices.ContainsFunc(e.Dictionary, match) ||
		slices.ContainsFunc(sp.personal, match) ||
		slices.ContainsFunc(sp.session, match)
}

func validWord(w string) bool {
	return w != "" && !strings.ContainsAny(w, " \t\r\n")
}

// SpellerCheck implements aspell.Engine.
func (e *Engine) SpellerCheck(s aspell.SpellerPtr, word []byte) int32 {
	e.enter("aspell_speller_check")
	defer e.mu.Unlock()

	sp := e.speller("aspell_speller_check", s)
	if sp == nil {
		return -1
	}
	if e.fail(sp, "check") {
		return -1
	}
	sp.err.clear()
	if e.known(sp, string(word)) {
		return 1
	}
	return 0
}

// SpellerSuggest implements aspell.Engine. Stored replacements come first,
// then known words within edit distance one (two in "bad-spellers" mode), in
// dictionary order.
func (e *Engine) SpellerSuggest(s aspell.SpellerPtr, word []byte) aspell.WordListPtr {
	e.enter("aspell_speller_suggest")
	defer e.mu.Unlock()

	sp := e.speller("aspell_speller_suggest", s)
	if sp == nil {
		return 0
	}
	w := string(word)
	limit := 1
	if e.option(sp, "sug-mode") == "bad-spellers" {
		limit = 2
	}

	var out []string
	add := func(c string) {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	for _, r := range sp.replacements[w] {
		add(r)
	}
	for _, list := range [][]string{e.Dictionary, sp.personal, sp.session} {
		for _, c := range list {
			if d := distance(w, c); d > 0 && d <= limit {
				add(c)
			}
		}
	}
	return e.newWordList(sp, out)
}

func (e *Engine) newWordList(sp *speller, words []string) aspell.WordListPtr {
	p := aspell.WordListPtr(e.alloc())
	e.wordLists[p] = slices.Clone(words)
	sp.lists = append(sp.lists, p)
	return p
}

// SpellerMainWordList implements aspell.Engine.
func (e *Engine) SpellerMainWordList(s aspell.SpellerPtr) aspell.WordListPtr {
	e.enter("aspell_speller_main_word_list")
	defer e.mu.Unlock()

	sp := e.speller("aspell_speller_main_word_list", s)
	if sp == nil {
		return 0
	}
	return e.newWordList(sp, e.Dictionary)
}

// SpellerPersonalWordList implements aspell.Engine.
func (e *Engine) SpellerPersonalWordList(s aspell.SpellerPtr) aspell.WordListPtr {
	e.enter("aspell_speller_personal_word_list")
	defer e.mu.Unlock()

	sp := e.speller("aspell_speller_personal_word_list", s)
	if sp == nil {
		return 0
	}
	return e.newWordList(sp, sp.personal)
}

// SpellerSessionWordList implements aspell.Engine.
func (e *Engine) SpellerSessionWordList(s aspell.SpellerPtr) aspell.WordListPtr {
	e.enter("aspell_speller_session_word_list")
	defer e.mu.Unlock()

	sp := e.speller("aspell_speller_session_word_list", s)
	if sp == nil {
		return 0
	}
	return e.newWordList(sp, sp.session)
}

func (e *Engine) addTo(op string, s aspell.SpellerPtr, word []byte, list func(*speller) *[]string) int32 {
	e.enter("aspell_speller_" + op)
	defer e.mu.Unlock()

	sp := e.speller("aspell_speller_"+op, s)
	if sp == nil {
		return 0
	}
	if e.fail(sp, op) {
		return 0
	}
	w := string(word)
	if !validWord(w) {
		sp.err.set("The word \"%s\" is invalid.", w)
		return 0
	}
	l := list(sp)
	if !slices.Contains(*l, w) {
		*l = append(*l, w)
	}
	sp.err.clear()
	return 1
}

// SpellerAddToPersonal implements aspell.Engine.
func (e *Engine) SpellerAddToPersonal(s aspell.SpellerPtr, word []byte) int32 {
	return e.addTo("add_to_personal", s, word, func(sp *speller) *[]string { return &sp.personal })
}

// SpellerAddToSession implements aspell.Engine.
func (e *Engine) SpellerAddToSession(s aspell.SpellerPtr, word []byte) int32 {
	return e.addTo("add_to_session", s, word, func(sp *speller) *[]string { return &sp.session })
}

// SpellerClearSession implements aspell.Engine.
func (e *Engine) SpellerClearSession(s aspell.SpellerPtr) int32 {
	e.enter("aspell_speller_clear_session")
	defer e.mu.Unlock()

	sp := e.speller("aspell_speller_clear_session", s)
	if sp == nil {
		return 0
	}
	if e.fail(sp, "clear_session") {
		return 0
	}
	sp.session = nil
	sp.err.clear()
	return 1
}

// SpellerSaveAllWordLists implements aspell.Engine. The personal list is
// written to the "personal" path, header line first.
func (e *Engine) SpellerSaveAllWordLists(s aspell.SpellerPtr) int32 {
	e.enter("aspell_speller_save_all_word_lists")
	defer e.mu.Unlock()

	sp := e.speller("aspell_speller_save_all_word_lists", s)
	if sp == nil {
		return 0
	}
	if e.fail(sp, "save_all") {
		return 0
	}
	path := e.option(sp, "personal-path")
	if path == "" {
		sp.err.clear()
		return 1
	}
	if err := writePersonal(path, e.option(sp, "lang"), sp.personal); err != nil {
		sp.err.set("%s", err.Error())
		return 0
	}
	sp.err.clear()
	return 1
}

// SpellerStoreReplacement implements aspell.Engine.
func (e *Engine) SpellerStoreReplacement(s aspell.SpellerPtr, mis, cor []byte) int32 {
	e.enter("aspell_speller_store_replacement")
	defer e.mu.Unlock()

	sp := e.speller("aspell_speller_store_replacement", s)
	if sp == nil {
		return 0
	}
	if e.fail(sp, "store_replacement") {
		return 0
	}
	m, c := string(mis), string(cor)
	if !validWord(m) || !validWord(c) {
		sp.err.set("The replacement pair \"%s\" -> \"%s\" is invalid.", m, c)
		return 0
	}
	rest := slices.DeleteFunc(sp.replacements[m], func(r string) bool { return r == c })
	sp.replacements[m] = append([]string{c}, rest...)
	sp.err.clear()
	return 1
}

// SpellerErrorNumber implements aspell.Engine.
func (e *Engine) SpellerErrorNumber(s aspell.SpellerPtr) uint32 {
	e.enter("aspell_speller_error_number")
	defer e.mu.Unlock()

	if sp := e.speller("aspell_speller_error_number", s); sp != nil {
		return sp.err.number
	}
	return 0
}

// SpellerErrorMessage implements aspell.Engine.
func (e *Engine) SpellerErrorMessage(s aspell.SpellerPtr) string {
	e.enter("aspell_speller_error_message")
	defer e.mu.Unlock()

	if sp := e.speller("aspell_speller_error_message", s); sp != nil {
		return sp.err.msg
	}
	return ""
}

// WordListElements implements aspell.Engine.
func (e *Engine) WordListElements(wl aspell.WordListPtr) aspell.StringEnumPtr {
	e.enter("aspell_word_list_elements")
	defer e.mu.Unlock()

	words, ok := e.wordLists[wl]
	if !ok {
		e.violate("aspell_word_list_elements: unknown word list %#x", wl)
		return 0
	}
	p := aspell.StringEnumPtr(e.alloc())
	e.stringEnums[p] = slices.Clone(words)
	return p
}

// StringEnumNext implements aspell.Engine.
func (e *Engine) StringEnumNext(p aspell.StringEnumPtr) ([]byte, bool) {
	e.enter("aspell_string_enumeration_next")
	defer e.mu.Unlock()

	rest, ok := e.stringEnums[p]
	if !ok {
		e.violate("aspell_string_enumeration_next: unknown enumeration %#x", p)
		return nil, false
	}
	if len(rest) == 0 {
		return nil, false
	}
	e.stringEnums[p] = rest[1:]
	return []byte(rest[0]), true
}

// DeleteStringEnum implements aspell.Engine.
func (e *Engine) DeleteStringEnum(p aspell.StringEnumPtr) {
	e.enter("delete_aspell_string_enumeration")
	defer e.mu.Unlock()

	if _, ok := e.stringEnums[p]; !ok {
		e.violate("delete_aspell_string_enumeration: unknown enumeration %#x", p)
		return
	}
	delete(e.stringEnums, p)
}

// NewStringEnum registers a string enumeration over words, for tests of code
// that drains enumerations directly.
func (e *Engine) NewStringEnum(words ...string) aspell.StringEnumPtr {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := aspell.StringEnumPtr(e.alloc())
	e.stringEnums[p] = slices.Clone(words)
	return p
}

// NewWordList registers a free-standing word list.
func (e *Engine) NewWordList(words ...string) aspell.WordListPtr {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := aspell.WordListPtr(e.alloc())
	e.wordLists[p] = slices.Clone(words)
	return p
}

// NewKeyInfoEnum registers a key-info enumeration over records.
func (e *Engine) NewKeyInfoEnum(records ...aspell.KeyInfo) aspell.KeyInfoEnumPtr {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := aspell.KeyInfoEnumPtr(e.alloc())
	e.keyEnums[p] = slices.Clone(records)
	return p
}

func readPersonal(path string) ([]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	sc := bufio.NewScanner(f)
	header := true
	for sc.Scan() {
		if header {
			header = false
			continue
		}
		if w := strings.TrimSpace(sc.Text()); w != "" {
			words = append(words, w)
		}
	}
	return words, sc.Err()
}

func writePersonal(path, lang string, words []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "personal_ws-1.1 %s %d\n", lang, len(words))
	for _, w := range words {
		b.WriteString(w)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// distance is the optimal string alignment distance between a and b.
func distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	d := make([][]int, len(ra)+1)
	for i := range d {
		d[i] = make([]int, len(rb)+1)
		d[i][0] = i
	}
	for j := range d[0] {
		d[0][j] = j
	}
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			d[i][j] = min(d[i-1][j]+1, d[i][j-1]+1, d[i-1][j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				d[i][j] = min(d[i][j], d[i-2][j-2]+1)
			}
		}
	}
	return d[len(ra)][len(rb)]
}
