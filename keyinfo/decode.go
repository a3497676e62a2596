package keyinfo

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/aspell-go"
	"github.com/wippyai/aspell-go/errors"
)

// ConfigKey describes one configuration key and its current value.
type ConfigKey struct {
	Value       Value
	Name        string
	Description string
	Kind        Kind
}

// Source supplies the current textual value of a key.
// It reports false when the value cannot be rendered as text.
type Source interface {
	Retrieve(name string) (string, bool)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(name string) (string, bool)

func (f SourceFunc) Retrieve(name string) (string, bool) { return f(name) }

// Defaults is a Source that never has a live value, so descriptor defaults
// are used throughout.
var Defaults Source = SourceFunc(func(string) (string, bool) { return "", false })

// internalDesc replaces empty descriptions.
const internalDesc = "internal"

// Decode converts descriptor records into typed keys, in record order.
// A nil src behaves like Defaults.
func Decode(records []aspell.KeyInfo, src Source) ([]ConfigKey, error) {
	if src == nil {
		src = Defaults
	}

	keys := make([]ConfigKey, 0, len(records))
	for _, rec := range records {
		kind, ok := KindOf(rec.Type)
		if !ok {
			Logger().Debug("skipping key with unknown kind",
				zap.String("key", rec.Name),
				zap.Int32("kind", int32(rec.Type)))
			continue
		}

		raw, ok := src.Retrieve(rec.Name)
		if !ok {
			raw = rec.Default
		}

		v, err := Parse(kind, raw)
		if err != nil {
			if e, ok := err.(*errors.Error); ok {
				e.Key = rec.Name
			}
			return nil, err
		}

		desc := rec.Desc
		if desc == "" {
			desc = internalDesc
		}
		keys = append(keys, ConfigKey{
			Name:        rec.Name,
			Kind:        kind,
			Value:       v,
			Description: desc,
		})
	}
	return keys, nil
}

// Parse converts raw text into a value of the given kind.
func Parse(kind Kind, raw string) (Value, error) {
	switch kind {
	case KindString:
		return String(raw), nil
	case KindInt:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, errors.New(errors.PhaseDecode, errors.KindConfig).
				Op("decode key").
				Value(raw).
				Cause(err).
				Detail("%q is not an integer", raw).
				Build()
		}
		return Int(n), nil
	case KindBool:
		return Bool(strings.EqualFold(raw, "true")), nil
	case KindList:
		return List(strings.Fields(raw)), nil
	}
	return nil, errors.Unsupported(errors.PhaseDecode, "decode key", "unknown kind "+kind.String())
}
