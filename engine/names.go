package engine

import (
	"context"
	"os"
	"path/filepath"

	"github.com/wippyai/aspell-go"
	"github.com/wippyai/aspell-go/errors"
)

// Loaded is an engine backed by a library that must be closed.
type Loaded interface {
	aspell.Engine
	Close(ctx context.Context) error
}

// Symbol indexes into the entry-point table.
type symbol int

const (
	symNewConfig symbol = iota
	symDeleteConfig
	symConfigReplace
	symConfigRetrieve
	symConfigErrorNumber
	symConfigErrorMessage
	symConfigKeyInfo
	symConfigPossibleElements
	symKeyInfoEnumNext
	symDeleteKeyInfoEnum
	symNewSpeller
	symErrorNumber
	symErrorMessage
	symDeleteCanHaveError
	symToSpeller
	symDeleteSpeller
	symSpellerConfig
	symSpellerCheck
	symSpellerSuggest
	symSpellerMainWordList
	symSpellerPersonalWordList
	symSpellerSessionWordList
	symSpellerAddToPersonal
	symSpellerAddToSession
	symSpellerClearSession
	symSpellerSaveAll
	symSpellerStoreReplacement
	symSpellerErrorNumber
	symSpellerErrorMessage
	symWordListElements
	symStringEnumNext
	symDeleteStringEnum
	numSymbols
)

// entryPoint is a C function name with its arity. Every parameter and result
// is a pointer or an int.
type entryPoint struct {
	name    string
	params  int
	results int
}

var entryPoints = [numSymbols]entryPoint{
	symNewConfig:               {"new_aspell_config", 0, 1},
	symDeleteConfig:            {"delete_aspell_config", 1, 0},
	symConfigReplace:           {"aspell_config_replace", 3, 1},
	symConfigRetrieve:          {"aspell_config_retrieve", 2, 1},
	symConfigErrorNumber:       {"aspell_config_error_number", 1, 1},
	symConfigErrorMessage:      {"aspell_config_error_message", 1, 1},
	symConfigKeyInfo:           {"aspell_config_keyinfo", 2, 1},
	symConfigPossibleElements:  {"aspell_config_possible_elements", 2, 1},
	symKeyInfoEnumNext:         {"aspell_key_info_enumeration_next", 1, 1},
	symDeleteKeyInfoEnum:       {"delete_aspell_key_info_enumeration", 1, 0},
	symNewSpeller:              {"new_aspell_speller", 1, 1},
	symErrorNumber:             {"aspell_error_number", 1, 1},
	symErrorMessage:            {"aspell_error_message", 1, 1},
	symDeleteCanHaveError:      {"delete_aspell_can_have_error", 1, 0},
	symToSpeller:               {"to_aspell_speller", 1, 1},
	symDeleteSpeller:           {"delete_aspell_speller", 1, 0},
	symSpellerConfig:           {"aspell_speller_config", 1, 1},
	symSpellerCheck:            {"aspell_speller_check", 3, 1},
	symSpellerSuggest:          {"aspell_speller_suggest", 3, 1},
	symSpellerMainWordList:     {"aspell_speller_main_word_list", 1, 1},
	symSpellerPersonalWordList: {"aspell_speller_personal_word_list", 1, 1},
	symSpellerSessionWordList:  {"aspell_speller_session_word_list", 1, 1},
	symSpellerAddToPersonal:    {"aspell_speller_add_to_personal", 3, 1},
	symSpellerAddToSession:     {"aspell_speller_add_to_session", 3, 1},
	symSpellerClearSession:     {"aspell_speller_clear_session", 1, 1},
	symSpellerSaveAll:          {"aspell_speller_save_all_word_lists", 1, 1},
	symSpellerStoreReplacement: {"aspell_speller_store_replacement", 5, 1},
	symSpellerErrorNumber:      {"aspell_speller_error_number", 1, 1},
	symSpellerErrorMessage:     {"aspell_speller_error_message", 1, 1},
	symWordListElements:        {"aspell_word_list_elements", 1, 1},
	symStringEnumNext:          {"aspell_string_enumeration_next", 1, 1},
	symDeleteStringEnum:        {"delete_aspell_string_enumeration", 1, 0},
}

func (s symbol) String() string {
	return entryPoints[s].name
}

// Symbols returns the names of every entry point an engine must provide.
func Symbols() []string {
	names := make([]string, numSymbols)
	for i, ep := range entryPoints {
		names[i] = ep.name
	}
	return names
}

// EnvLibrary names the environment variable that overrides discovery.
const EnvLibrary = "ASPELL_LIBRARY"

// Sonames are the file names tried by Find, most specific first.
var Sonames = []string{
	"libaspell.so.15",
	"libaspell.so",
	"libaspell.15.dylib",
	"libaspell.dylib",
}

// searchDirs are searched in order by Find.
var searchDirs = []string{
	"/usr/lib/x86_64-linux-gnu",
	"/usr/lib/aarch64-linux-gnu",
	"/usr/lib64",
	"/usr/lib",
	"/usr/local/lib",
	"/opt/homebrew/lib",
	"/opt/local/lib",
}

// Find returns the path of the shared library. An explicit $ASPELL_LIBRARY
// must exist; otherwise the first soname present in a search directory wins.
func Find() (string, error) {
	if p := os.Getenv(EnvLibrary); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", errors.Load(EnvLibrary+" points to a missing file", err)
		}
		return p, nil
	}
	for _, dir := range searchDirs {
		for _, name := range Sonames {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
	}
	return "", errors.NotFound(errors.PhaseLoad, "library", "libaspell")
}

// candidates returns the paths OpenShared tries, in order.
func candidates(path string) ([]string, error) {
	if path != "" {
		return []string{path}, nil
	}
	p, err := Find()
	if err == nil {
		return []string{p}, nil
	}
	if os.Getenv(EnvLibrary) != "" {
		return nil, err
	}
	return Sonames, nil
}
