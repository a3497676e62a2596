package main

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/wippyai/aspell-go/errors"
	"github.com/wippyai/aspell-go/keyinfo"
	"github.com/wippyai/aspell-go/speller"
)

var errQuit = stderrors.New("quit")

const helpText = `commands:
  WORD                 check a word and suggest corrections
  check WORD           check a word
  suggest WORD         list suggestions
  add WORD             add to the personal word list
  session WORD         accept for this session
  replace MISS CORR    store a replacement pair
  clear                clear the session word list
  save                 save personal and replacement lists
  list main|personal|session
  keys                 show configuration keys
  get KEY              show one key
  set KEY VALUE...     change a key on the running speller
  help
  quit`

// shell runs interactive commands against one speller.
type shell struct {
	sp *speller.Speller
}

func (s *shell) exec(line string) (string, error) {
	args, err := shellwords.Parse(line)
	if err != nil {
		return "", errors.Validation(errors.PhaseValidate, "parse", err.Error())
	}
	if len(args) == 0 {
		return "", nil
	}

	cmd, rest := args[0], args[1:]
	need := func(n int) error {
		if len(rest) != n {
			return errors.Validation(errors.PhaseValidate, cmd, fmt.Sprintf("expected %d argument(s), got %d", n, len(rest)))
		}
		return nil
	}

	switch cmd {
	case "quit", "exit":
		return "", errQuit
	case "help":
		return helpText, nil
	case "check":
		if err := need(1); err != nil {
			return "", err
		}
		ok, err := s.sp.Check(rest[0])
		if err != nil {
			return "", err
		}
		if ok {
			return rest[0] + ": ok", nil
		}
		return rest[0] + ": misspelled", nil
	case "suggest":
		if err := need(1); err != nil {
			return "", err
		}
		sugs, err := s.sp.Suggest(rest[0])
		if err != nil {
			return "", err
		}
		return formatSuggestions(rest[0], sugs), nil
	case "add":
		if err := need(1); err != nil {
			return "", err
		}
		if err := s.sp.AddToPersonal(rest[0]); err != nil {
			return "", err
		}
		return "added " + rest[0], nil
	case "session":
		if err := need(1); err != nil {
			return "", err
		}
		if err := s.sp.AddToSession(rest[0]); err != nil {
			return "", err
		}
		return "accepted " + rest[0], nil
	case "replace":
		if err := need(2); err != nil {
			return "", err
		}
		if err := s.sp.AddReplacementPair(rest[0], rest[1]); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s -> %s", rest[0], rest[1]), nil
	case "clear":
		if err := s.sp.ClearSession(); err != nil {
			return "", err
		}
		return "session cleared", nil
	case "save":
		if err := s.sp.SaveAll(); err != nil {
			return "", err
		}
		return "saved", nil
	case "list":
		if err := need(1); err != nil {
			return "", err
		}
		return s.list(rest[0])
	case "keys":
		keys, err := s.sp.ConfigKeys()
		if err != nil {
			return "", err
		}
		return formatKeys(keys), nil
	case "get":
		if err := need(1); err != nil {
			return "", err
		}
		k, err := s.key(rest[0])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s = %s", k.Name, keyinfo.Encode(k.Value)), nil
	case "set":
		if len(rest) < 2 {
			return "", errors.Validation(errors.PhaseValidate, cmd, "usage: set KEY VALUE")
		}
		k, err := s.key(rest[0])
		if err != nil {
			return "", err
		}
		v, err := keyinfo.Parse(k.Kind, strings.Join(rest[1:], " "))
		if err != nil {
			return "", err
		}
		if err := s.sp.SetConfigKey(k.Name, v); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s = %s", k.Name, keyinfo.Encode(v)), nil
	}

	if len(args) == 1 {
		return checkWord(s.sp, cmd)
	}
	return "", errors.Validation(errors.PhaseValidate, "exec", fmt.Sprintf("unknown command %q", cmd))
}

func (s *shell) list(which string) (string, error) {
	var (
		words []string
		err   error
	)
	switch which {
	case "main":
		words, err = s.sp.MainWordList()
	case "personal":
		words, err = s.sp.PersonalWordList()
	case "session":
		words, err = s.sp.SessionWordList()
	default:
		return "", errors.Validation(errors.PhaseValidate, "list", fmt.Sprintf("unknown word list %q", which))
	}
	if err != nil {
		return "", err
	}
	if len(words) == 0 {
		return "(empty)", nil
	}
	return strings.Join(words, "\n"), nil
}

func (s *shell) key(name string) (keyinfo.ConfigKey, error) {
	keys, err := s.sp.ConfigKeys()
	if err != nil {
		return keyinfo.ConfigKey{}, err
	}
	for _, k := range keys {
		if k.Name == name {
			return k, nil
		}
	}
	return keyinfo.ConfigKey{}, errors.NotFound(errors.PhaseConfig, "key", name)
}

// checkWord renders the batch-mode line for one word.
func checkWord(sp *speller.Speller, word string) (string, error) {
	ok, err := sp.Check(word)
	if err != nil {
		return "", err
	}
	if ok {
		return word + ": ok", nil
	}
	sugs, err := sp.Suggest(word)
	if err != nil {
		return "", err
	}
	return formatSuggestions(word, sugs), nil
}

func formatSuggestions(word string, sugs []string) string {
	if len(sugs) == 0 {
		return word + ": no suggestions"
	}
	return word + ": " + strings.Join(sugs, ", ")
}

func formatKeys(keys []keyinfo.ConfigKey) string {
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-24s %-8s %-16s %s", k.Name, k.Kind, keyinfo.Encode(k.Value), k.Description)
	}
	return b.String()
}
