package speller

import (
	"strings"

	"github.com/wippyai/aspell-go/errors"
)

// Option is one configuration key and its textual value.
type Option struct {
	Key   string
	Value string
}

// Opt is shorthand for Option{key, value}.
func Opt(key, value string) Option {
	return Option{Key: key, Value: value}
}

// Pairs builds options from alternating keys and values.
func Pairs(kv ...string) ([]Option, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New(errors.PhaseValidate, errors.KindValidation).
			Op("options").
			Value(kv).
			Detail("expected key/value pairs, got %d strings", len(kv)).
			Build()
	}
	opts := make([]Option, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		opts = append(opts, Option{Key: kv[i], Value: kv[i+1]})
	}
	return opts, nil
}

func (o Option) validate(op string) error {
	if o.Key == "" {
		return errors.Validation(errors.PhaseValidate, op, "option key is empty")
	}
	if strings.IndexByte(o.Key, 0) >= 0 || strings.IndexByte(o.Value, 0) >= 0 {
		return errors.New(errors.PhaseValidate, errors.KindValidation).
			Op(op).
			Key(o.Key).
			Detail("option contains a NUL byte").
			Build()
	}
	return nil
}

func validateAll(op string, opts []Option) error {
	for _, o := range opts {
		if err := o.validate(op); err != nil {
			return err
		}
	}
	return nil
}
