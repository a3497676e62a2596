// Package codec converts words between Go strings and the engine's encoding.
//
// The engine works on byte strings in the charset named by its "encoding"
// configuration key. UTF-8 is passed through after validation; other
// charsets go through golang.org/x/text.
package codec

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/wippyai/aspell-go/errors"
)

// Codec translates between Go strings and one engine charset.
type Codec struct {
	enc  encoding.Encoding
	name string
	mode mode
}

type mode uint8

const (
	modeUTF8 mode = iota
	modeASCII
	modeCharmap
)

// UTF8 is the codec for engines configured with utf-8.
var UTF8 = &Codec{name: "utf-8", mode: modeUTF8}

// For returns the codec for an engine encoding name.
// The empty name and "none" select UTF-8.
func For(name string) (*Codec, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "", "none", "utf-8", "utf8":
		return UTF8, nil
	case "ascii", "us-ascii", "ansi_x3.4-1968":
		return &Codec{name: "ascii", mode: modeASCII}, nil
	}

	enc, err := ianaindex.IANA.Encoding(n)
	if err != nil || enc == nil {
		enc, err = ianaindex.MIME.Encoding(n)
	}
	if err != nil || enc == nil {
		return nil, errors.New(errors.PhaseConfig, errors.KindUnsupported).
			Op("encoding").
			Value(name).
			Cause(err).
			Detail("charset %q is not supported", name).
			Build()
	}
	return &Codec{name: n, enc: enc, mode: modeCharmap}, nil
}

// Name returns the normalized charset name.
func (c *Codec) Name() string {
	return c.name
}

// Encode converts a word to engine bytes. Words with NUL bytes, invalid
// UTF-8 or characters the charset cannot represent are rejected.
func (c *Codec) Encode(word string) ([]byte, error) {
	if strings.IndexByte(word, 0) >= 0 {
		return nil, encodeError(word, "contains a NUL byte", nil)
	}
	if !utf8.ValidString(word) {
		return nil, encodeError(word, "is not valid UTF-8", nil)
	}

	switch c.mode {
	case modeASCII:
		for i := 0; i < len(word); i++ {
			if word[i] >= utf8.RuneSelf {
				return nil, encodeError(word, "is not representable in ascii", nil)
			}
		}
		return []byte(word), nil
	case modeCharmap:
		b, err := c.enc.NewEncoder().Bytes([]byte(word))
		if err != nil {
			return nil, encodeError(word, "is not representable in "+c.name, err)
		}
		return b, nil
	}
	return []byte(word), nil
}

// Decode converts engine bytes to a Go string.
func (c *Codec) Decode(b []byte) (string, error) {
	switch c.mode {
	case modeUTF8:
		if !utf8.Valid(b) {
			return "", decodeError(b, "is not valid UTF-8", nil)
		}
		return string(b), nil
	case modeASCII:
		for _, ch := range b {
			if ch >= utf8.RuneSelf {
				return "", decodeError(b, "is not ascii", nil)
			}
		}
		return string(b), nil
	}

	out, err := c.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", decodeError(b, "is not valid "+c.name, err)
	}
	if bytes.ContainsRune(out, utf8.RuneError) && !bytes.Contains(b, []byte(string(utf8.RuneError))) {
		return "", decodeError(b, "is not valid "+c.name, nil)
	}
	return string(out), nil
}

func encodeError(word, why string, cause error) error {
	return errors.New(errors.PhaseEncode, errors.KindValidation).
		Op("encode word").
		Value(word).
		Cause(cause).
		Detail("word %q %s", word, why).
		Build()
}

func decodeError(b []byte, why string, cause error) error {
	return errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Op("decode word").
		Value(b).
		Cause(cause).
		Detail("engine bytes %q %s", b, why).
		Build()
}
