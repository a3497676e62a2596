package speller

import (
	"sync"

	"github.com/wippyai/aspell-go"
	"github.com/wippyai/aspell-go/enum"
	"github.com/wippyai/aspell-go/errors"
	"github.com/wippyai/aspell-go/keyinfo"
	"github.com/wippyai/aspell-go/resource"
)

// Config is a native configuration object.
//
// It dies on the first failed Apply and on Consume. A dead Config rejects
// every call without touching the engine.
type Config struct {
	lib    *Library
	ptr    aspell.ConfigPtr
	handle resource.Handle
	mu     sync.Mutex
}

// NewConfig creates an empty configuration object.
func (l *Library) NewConfig() (*Config, error) {
	const op = "new config"
	var cfg *Config
	err := l.run(op, func() error {
		ptr := l.eng.NewConfig()
		if ptr == 0 {
			return errors.Engine(errors.PhaseConfig, op, "engine returned a null configuration")
		}
		h, err := l.track(op, resource.KindConfig, resource.ReleaseFunc(func() {
			l.eng.DeleteConfig(ptr)
		}))
		if err != nil {
			return err
		}
		cfg = &Config{lib: l, ptr: ptr, handle: h}
		return nil
	})
	if err != nil {
		if cfg != nil {
			cfg.Discard()
		}
		return nil, err
	}
	return cfg, nil
}

// live returns an error once the config is dead. The caller holds c.mu.
func (c *Config) live(op string) error {
	if c.handle != 0 {
		if _, ok := c.lib.table.GetTyped(c.handle, resource.KindConfig); ok {
			return nil
		}
		// destroyed by Library.Close
		c.handle, c.ptr = 0, 0
	}
	return errors.Released(op, "config")
}

// destroy releases the native object. The caller holds c.mu.
func (c *Config) destroy() {
	if c.handle == 0 {
		return
	}
	c.lib.table.Remove(c.handle)
	c.handle = 0
	c.ptr = 0
}

// Apply sets one key. On failure the object is destroyed and the engine's
// message is returned as a config error.
func (c *Config) Apply(key, value string) error {
	const op = "apply"
	if err := Opt(key, value).validate(op); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.lib.run(op, func() error {
		if err := c.live(op); err != nil {
			return err
		}
		eng := c.lib.eng
		if !eng.ConfigReplace(c.ptr, key, value) || eng.ConfigErrorNumber(c.ptr) != 0 {
			return errors.Config(op, key, eng.ConfigErrorMessage(c.ptr))
		}
		return nil
	})
	if err != nil {
		c.destroy()
	}
	return err
}

// ApplyAll applies options in order. All options are validated before the
// first native call.
func (c *Config) ApplyAll(opts []Option) error {
	if err := validateAll("apply", opts); err != nil {
		return err
	}
	for _, o := range opts {
		if err := c.Apply(o.Key, o.Value); err != nil {
			return err
		}
	}
	return nil
}

// Retrieve returns the current textual value of key.
func (c *Config) Retrieve(key string) (string, error) {
	const op = "retrieve"
	c.mu.Lock()
	defer c.mu.Unlock()
	var v string
	err := c.lib.run(op, func() error {
		if err := c.live(op); err != nil {
			return err
		}
		var err error
		v, err = retrieve(c.lib.eng, c.ptr, op, key)
		return err
	})
	return v, err
}

func retrieve(eng aspell.Engine, ptr aspell.ConfigPtr, op, key string) (string, error) {
	v, ok := eng.ConfigRetrieve(ptr, key)
	if !ok || eng.ConfigErrorNumber(ptr) != 0 {
		return "", errors.Config(op, key, eng.ConfigErrorMessage(ptr))
	}
	return v, nil
}

// Keys describes every key of this configuration with its current value.
func (c *Config) Keys() ([]keyinfo.ConfigKey, error) {
	const op = "config keys"
	c.mu.Lock()
	defer c.mu.Unlock()
	var keys []keyinfo.ConfigKey
	err := c.lib.run(op, func() error {
		if err := c.live(op); err != nil {
			return err
		}
		var err error
		keys, err = configKeys(c.lib.eng, c.ptr, op)
		return err
	})
	return keys, err
}

// Discard destroys the object without creating a speller.
// Discarding a dead Config is a no-op.
func (c *Config) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.lib.run("discard", func() error {
		c.destroy()
		return nil
	})
	c.handle, c.ptr = 0, 0
}

// Consume creates a speller from the configuration. The configuration is
// destroyed whether or not creation succeeds.
func (c *Config) Consume() (*Speller, error) {
	const op = "new speller"
	c.mu.Lock()
	defer c.mu.Unlock()

	var sp *Speller
	err := c.lib.run(op, func() error {
		if err := c.live(op); err != nil {
			return err
		}
		defer c.destroy()

		var err error
		sp, err = c.create(op)
		return err
	})
	if err != nil {
		c.destroy()
		if sp != nil {
			sp.drop()
		}
		return nil, err
	}
	return sp, nil
}

// create runs the native can-have-error conversion. The caller holds c.mu
// and the library open.
func (c *Config) create(op string) (*Speller, error) {
	lib, eng := c.lib, c.lib.eng
	che := eng.NewSpeller(c.ptr)
	if che == 0 {
		return nil, errors.Engine(errors.PhaseConstruct, op, "engine returned a null result")
	}

	// Until converted, the can-have-error object is ours to delete.
	converted := false
	h, err := lib.track(op, resource.KindCanHaveError, resource.ReleaseFunc(func() {
		if !converted {
			eng.DeleteCanHaveError(che)
		}
	}))
	if err != nil {
		return nil, err
	}

	if eng.ErrorNumber(che) != 0 {
		msg := eng.ErrorMessage(che)
		lib.table.Remove(h)
		return nil, errors.Engine(errors.PhaseConstruct, op, msg)
	}

	ptr := eng.ToSpeller(che)
	converted = true
	lib.table.Remove(h)
	if ptr == 0 {
		return nil, errors.Engine(errors.PhaseConstruct, op, "engine returned a null speller")
	}
	return lib.adopt(ptr)
}

func configKeys(eng aspell.Engine, ptr aspell.ConfigPtr, op string) ([]keyinfo.ConfigKey, error) {
	e := eng.ConfigPossibleElements(ptr, true)
	if e == 0 {
		return nil, errors.Engine(errors.PhaseEnumerate, op, "engine returned no key enumeration")
	}
	records := enum.KeyInfos(eng, e)
	return keyinfo.Decode(records, keyinfo.SourceFunc(func(name string) (string, bool) {
		return eng.ConfigRetrieve(ptr, name)
	}))
}

// DefaultConfigKeys describes every key of a fresh configuration.
func DefaultConfigKeys(lib *Library) ([]keyinfo.ConfigKey, error) {
	cfg, err := lib.NewConfig()
	if err != nil {
		return nil, err
	}
	defer cfg.Discard()
	return cfg.Keys()
}
