package codec

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/aspell-go/errors"
)

func TestFor_UTF8Aliases(t *testing.T) {
	for _, name := range []string{"", "none", "utf-8", "UTF-8", "utf8", " utf-8 "} {
		c, err := For(name)
		if err != nil {
			t.Fatalf("For(%q) failed: %v", name, err)
		}
		if c != UTF8 {
			t.Fatalf("For(%q) = %s, want utf-8", name, c.Name())
		}
	}
}

func TestFor_Unknown(t *testing.T) {
	_, err := For("klingon-8")
	if err == nil {
		t.Fatal("expected error")
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindUnsupported {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUTF8_RoundTrip(t *testing.T) {
	for _, w := range []string{"word", "café", "naïve", "日本語", ""} {
		b, err := UTF8.Encode(w)
		if err != nil {
			t.Fatalf("Encode(%q) failed: %v", w, err)
		}
		got, err := UTF8.Decode(b)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", b, err)
		}
		if got != w {
			t.Fatalf("round trip %q -> %q", w, got)
		}
	}
}

func TestEncode_Rejects(t *testing.T) {
	latin1, err := For("iso-8859-1")
	if err != nil {
		t.Fatalf("For(iso-8859-1) failed: %v", err)
	}
	ascii, err := For("ascii")
	if err != nil {
		t.Fatalf("For(ascii) failed: %v", err)
	}

	tests := []struct {
		name  string
		codec *Codec
		word  string
	}{
		{"nul utf-8", UTF8, "wo\x00rd"},
		{"nul latin1", latin1, "\x00"},
		{"invalid utf-8", UTF8, "\xff\xfe"},
		{"cjk in latin1", latin1, "日本"},
		{"accent in ascii", ascii, "café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.codec.Encode(tt.word)
			if err == nil {
				t.Fatal("expected error")
			}
			if !stderrors.Is(err, errors.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestLatin1(t *testing.T) {
	c, err := For("ISO-8859-1")
	if err != nil {
		t.Fatalf("For failed: %v", err)
	}

	b, err := c.Encode("café")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if string(b) != "caf\xe9" {
		t.Fatalf("Encode = %q, want %q", b, "caf\xe9")
	}

	got, err := c.Decode(b)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got != "café" {
		t.Fatalf("Decode = %q, want café", got)
	}
}

func TestDecode_Invalid(t *testing.T) {
	if _, err := UTF8.Decode([]byte{0xc3}); err == nil {
		t.Fatal("expected error for truncated UTF-8")
	}

	ascii, _ := For("us-ascii")
	_, err := ascii.Decode([]byte{'a', 0x80})
	if err == nil {
		t.Fatal("expected error for high byte in ascii")
	}
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindInvalidData || e.Phase != errors.PhaseDecode {
		t.Fatalf("unexpected error: %v", err)
	}
}
