package speller

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/aspell-go"
	"github.com/wippyai/aspell-go/codec"
	"github.com/wippyai/aspell-go/enum"
	"github.com/wippyai/aspell-go/errors"
	"github.com/wippyai/aspell-go/keyinfo"
	"github.com/wippyai/aspell-go/resource"
)

// Speller is one live dictionary session.
// It is safe for concurrent use; calls are serialised.
type Speller struct {
	lib    *Library
	codec  *codec.Codec
	ptr    aspell.SpellerPtr
	handle resource.Handle
	mu     sync.Mutex
}

// New creates a speller from options applied in order. Later duplicates of a
// key override earlier ones.
func New(lib *Library, opts ...Option) (*Speller, error) {
	if err := validateAll("new speller", opts); err != nil {
		return nil, err
	}
	cfg, err := lib.NewConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyAll(opts); err != nil {
		return nil, err
	}
	return cfg.Consume()
}

// adopt takes ownership of a freshly created native speller.
func (l *Library) adopt(ptr aspell.SpellerPtr) (*Speller, error) {
	const op = "new speller"
	h, err := l.track(op, resource.KindSpeller, resource.ReleaseFunc(func() {
		l.eng.DeleteSpeller(ptr)
	}))
	if err != nil {
		return nil, err
	}

	name, err := retrieve(l.eng, l.eng.SpellerConfig(ptr), op, "encoding")
	if err == nil {
		var c *codec.Codec
		if c, err = codec.For(name); err == nil {
			l.log.Debug("speller created", zap.Uint32("handle", uint32(h)), zap.String("encoding", c.Name()))
			return &Speller{lib: l, codec: c, ptr: ptr, handle: h}, nil
		}
	}
	l.table.Remove(h)
	return nil, err
}

// live returns an error once the speller is released. The caller holds s.mu.
func (s *Speller) live(op string) error {
	if s.handle != 0 {
		if _, ok := s.lib.table.GetTyped(s.handle, resource.KindSpeller); ok {
			return nil
		}
		// destroyed by Library.Close
		s.handle, s.ptr = 0, 0
	}
	return errors.Released(op, "speller")
}

// surface converts a non-zero error number into a speller error.
func (s *Speller) surface(op string) error {
	eng := s.lib.eng
	if eng.SpellerErrorNumber(s.ptr) == 0 {
		return nil
	}
	return errors.Speller(op, eng.SpellerErrorMessage(s.ptr))
}

// mutate runs a native call that may set the error surface and checks it.
func (s *Speller) mutate(op string, call func(eng aspell.Engine, p aspell.SpellerPtr)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lib.run(op, func() error {
		if err := s.live(op); err != nil {
			return err
		}
		call(s.lib.eng, s.ptr)
		return s.surface(op)
	})
}

// view runs a read-only call with the speller borrowed, so the ledger
// refuses to drop it until call returns.
func (s *Speller) view(op string, call func(eng aspell.Engine, p aspell.SpellerPtr) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lib.run(op, func() error {
		if err := s.live(op); err != nil {
			return err
		}
		s.lib.table.Borrow(s.handle)
		defer s.lib.table.ReturnBorrow(s.handle)
		return call(s.lib.eng, s.ptr)
	})
}

func (s *Speller) words(op string, list func(eng aspell.Engine, p aspell.SpellerPtr) aspell.WordListPtr) ([]string, error) {
	var out []string
	err := s.view(op, func(eng aspell.Engine, p aspell.SpellerPtr) error {
		var err error
		out, err = enum.WordList(eng, list(eng, p), s.codec.Decode)
		return err
	})
	return out, err
}

// Encoding returns the charset words are exchanged in.
func (s *Speller) Encoding() string {
	return s.codec.Name()
}

// Check reports whether word is known to the main, personal or session lists.
func (s *Speller) Check(word string) (bool, error) {
	const op = "check"
	b, err := s.codec.Encode(word)
	if err != nil {
		return false, err
	}

	var r int32
	err = s.view(op, func(eng aspell.Engine, p aspell.SpellerPtr) error {
		r = eng.SpellerCheck(p, b)
		if r < 0 {
			if err := s.surface(op); err != nil {
				return err
			}
			return errors.Speller(op, "engine could not check the word")
		}
		return nil
	})
	return r == 1, err
}

// Suggest returns ranked corrections for word. An empty result is not an
// error.
func (s *Speller) Suggest(word string) ([]string, error) {
	b, err := s.codec.Encode(word)
	if err != nil {
		return nil, err
	}
	return s.words("suggest", func(eng aspell.Engine, p aspell.SpellerPtr) aspell.WordListPtr {
		return eng.SpellerSuggest(p, b)
	})
}

// MainWordList returns the words of the main dictionary.
func (s *Speller) MainWordList() ([]string, error) {
	return s.words("main word list", aspell.Engine.SpellerMainWordList)
}

// PersonalWordList returns the words of the personal dictionary.
func (s *Speller) PersonalWordList() ([]string, error) {
	return s.words("personal word list", aspell.Engine.SpellerPersonalWordList)
}

// SessionWordList returns the words accepted for this session only.
func (s *Speller) SessionWordList() ([]string, error) {
	return s.words("session word list", aspell.Engine.SpellerSessionWordList)
}

// AddToPersonal adds word to the personal dictionary.
// It is written to disk by SaveAll.
func (s *Speller) AddToPersonal(word string) error {
	b, err := s.codec.Encode(word)
	if err != nil {
		return err
	}
	return s.mutate("add to personal", func(eng aspell.Engine, p aspell.SpellerPtr) {
		eng.SpellerAddToPersonal(p, b)
	})
}

// AddToSession accepts word until the session is cleared or the speller
// released.
func (s *Speller) AddToSession(word string) error {
	b, err := s.codec.Encode(word)
	if err != nil {
		return err
	}
	return s.mutate("add to session", func(eng aspell.Engine, p aspell.SpellerPtr) {
		eng.SpellerAddToSession(p, b)
	})
}

// ClearSession empties the session word list.
func (s *Speller) ClearSession() error {
	return s.mutate("clear session", func(eng aspell.Engine, p aspell.SpellerPtr) {
		eng.SpellerClearSession(p)
	})
}

// AddReplacementPair makes correct a preferred suggestion for misspelled.
func (s *Speller) AddReplacementPair(misspelled, correct string) error {
	mis, err := s.codec.Encode(misspelled)
	if err != nil {
		return err
	}
	cor, err := s.codec.Encode(correct)
	if err != nil {
		return err
	}
	return s.mutate("store replacement", func(eng aspell.Engine, p aspell.SpellerPtr) {
		eng.SpellerStoreReplacement(p, mis, cor)
	})
}

// SaveAll writes the personal and replacement lists to their files.
// It blocks on disk I/O inside the engine and cannot be cancelled.
func (s *Speller) SaveAll() error {
	return s.mutate("save all", func(eng aspell.Engine, p aspell.SpellerPtr) {
		eng.SpellerSaveAllWordLists(p)
	})
}

// ConfigKeys describes every configuration key with its current value.
func (s *Speller) ConfigKeys() ([]keyinfo.ConfigKey, error) {
	const op = "config keys"
	var keys []keyinfo.ConfigKey
	err := s.view(op, func(eng aspell.Engine, p aspell.SpellerPtr) error {
		var err error
		keys, err = configKeys(eng, eng.SpellerConfig(p), op)
		return err
	})
	return keys, err
}

// SetConfigKey changes one key of the speller's configuration. The value
// must have the key's declared kind; list keys cannot be set.
func (s *Speller) SetConfigKey(key string, v keyinfo.Value) error {
	const op = "set config key"
	if err := Opt(key, "").validate(op); err != nil {
		return err
	}
	if v == nil {
		return errors.New(errors.PhaseValidate, errors.KindValidation).
			Op(op).Key(key).Detail("value is nil").Build()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lib.run(op, func() error {
		if err := s.live(op); err != nil {
			return err
		}
		return s.setConfigKey(op, key, v)
	})
}

// setConfigKey does the native part of SetConfigKey. The caller holds s.mu
// and the library open.
func (s *Speller) setConfigKey(op, key string, v keyinfo.Value) error {
	eng := s.lib.eng
	cfg := eng.SpellerConfig(s.ptr)
	info, ok := eng.ConfigKeyInfo(cfg, key)
	if !ok || eng.ConfigErrorNumber(cfg) != 0 {
		return errors.Config(op, key, eng.ConfigErrorMessage(cfg))
	}

	kind, known := keyinfo.KindOf(info.Type)
	switch {
	case !known:
		return errors.New(errors.PhaseValidate, errors.KindUnsupported).
			Op(op).Key(key).Detail("key has unknown kind %d", info.Type).Build()
	case kind == keyinfo.KindList:
		return errors.New(errors.PhaseValidate, errors.KindUnsupported).
			Op(op).Key(key).Detail("list keys cannot be set").Build()
	case v.Kind() != kind:
		return errors.New(errors.PhaseValidate, errors.KindValidation).
			Op(op).Key(key).Value(v).
			Detail("key is %s, got %s", kind, v.Kind()).Build()
	}

	text := keyinfo.Encode(v)
	if !eng.ConfigReplace(cfg, key, text) || eng.ConfigErrorNumber(cfg) != 0 {
		return errors.Config(op, key, eng.ConfigErrorMessage(cfg))
	}
	return nil
}

// Release destroys the speller. Every later call, including another
// Release, returns a released error.
func (s *Speller) Release() error {
	const op = "release"
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lib.run(op, func() error {
		if err := s.live(op); err != nil {
			return err
		}
		s.drop()
		return nil
	})
}

// drop destroys the native speller. The caller holds s.mu, or is the only
// holder of s.
func (s *Speller) drop() {
	s.lib.table.Remove(s.handle)
	s.handle, s.ptr = 0, 0
}
