package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseConfig,
				Kind:   KindConfig,
				Op:     "apply",
				Key:    "lang",
				Detail: "no word lists",
			},
			contains: []string{"[config]", "config", "apply", "key lang", "no word lists"},
		},
		{
			name: "minimal error",
			err: &Error{
				Kind: KindReleased,
			},
			contains: []string{"released"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindEngine,
				Detail: "dlopen",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[load]", "engine", "dlopen", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseOperation,
		Kind:  KindSpeller,
		Op:    "save_all",
	}

	if !err.Is(&Error{Phase: PhaseOperation, Kind: KindSpeller}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseConfig, Kind: KindSpeller}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseOperation, Kind: KindConfig}) {
		t.Error("Is should not match different kind")
	}
	if err.Is(&Error{}) {
		t.Error("Is should not match an empty target")
	}

	if !errors.Is(err, ErrSpeller) {
		t.Error("errors.Is should match the kind sentinel")
	}
	if errors.Is(err, ErrValidation) {
		t.Error("errors.Is should not match another kind sentinel")
	}
}

func TestSentinelsThroughWrapping(t *testing.T) {
	inner := Config("apply", "lang", "bad value")
	wrapped := Wrap(PhaseConstruct, KindEngine, inner, "create speller")

	if !errors.Is(wrapped, ErrEngine) {
		t.Error("wrapper should match its own kind")
	}
	if !errors.Is(wrapped, ErrConfig) {
		t.Error("wrapper should match the cause's kind")
	}

	var target *Error
	if !errors.As(wrapped, &target) || target.Kind != KindEngine {
		t.Errorf("errors.As returned %v", target)
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseConfig, KindConfig).
		Op("apply").
		Key("run-together-min").
		Value("abc").
		Cause(cause).
		Detail("expected %s, got %q", "integer", "abc").
		Build()

	if err.Phase != PhaseConfig {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseConfig)
	}
	if err.Kind != KindConfig {
		t.Errorf("Kind = %v, want %v", err.Kind, KindConfig)
	}
	if err.Op != "apply" {
		t.Errorf("Op = %v, want apply", err.Op)
	}
	if err.Key != "run-together-min" {
		t.Errorf("Key = %v, want run-together-min", err.Key)
	}
	if err.Value != "abc" {
		t.Errorf("Value = %v, want abc", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != `expected integer, got "abc"` {
		t.Errorf("Detail = %v", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name  string
		err   *Error
		kind  Kind
		phase Phase
	}{
		{"Validation", Validation(PhaseValidate, "check", "NUL byte"), KindValidation, PhaseValidate},
		{"Config", Config("apply", "lang", "unknown"), KindConfig, PhaseConfig},
		{"Engine", Engine(PhaseConstruct, "new_speller", "no dictionary"), KindEngine, PhaseConstruct},
		{"Speller", Speller("clear_session", "failed"), KindSpeller, PhaseOperation},
		{"Released", Released("check", "speller"), KindReleased, PhaseValidate},
		{"Unsupported", Unsupported(PhaseOperation, "set_config_key", "list values"), KindUnsupported, PhaseOperation},
		{"InvalidData", InvalidData(PhaseDecode, "decode", "bad bytes", nil), KindInvalidData, PhaseDecode},
		{"NotFound", NotFound(PhaseLoad, "library", "libaspell.so"), KindNotFound, PhaseLoad},
		{"Load", Load("dlopen failed", nil), KindEngine, PhaseLoad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if tt.err.Phase != tt.phase {
				t.Errorf("Phase = %v, want %v", tt.err.Phase, tt.phase)
			}
		})
	}

	if d := Released("check", "speller").Detail; d != "speller already released" {
		t.Errorf("Released detail = %q", d)
	}
}

func TestMissingSymbolsError(t *testing.T) {
	t.Run("lists symbols", func(t *testing.T) {
		err := &MissingSymbolsError{
			Library: "libaspell.so",
			Symbols: []string{"new_aspell_config", "delete_aspell_config"},
		}
		msg := err.Error()
		for _, s := range []string{"libaspell.so", "2", "new_aspell_config", "delete_aspell_config"} {
			if !strings.Contains(msg, s) {
				t.Errorf("error %q should contain %q", msg, s)
			}
		}
	})

	t.Run("empty", func(t *testing.T) {
		err := &MissingSymbolsError{}
		if !strings.Contains(err.Error(), "no symbols specified") {
			t.Errorf("unexpected message: %s", err.Error())
		}
	})

	t.Run("errors.Is", func(t *testing.T) {
		err := &MissingSymbolsError{Symbols: []string{"x"}}
		if !errors.Is(err, &MissingSymbolsError{}) {
			t.Error("errors.Is should match MissingSymbolsError")
		}
		if !errors.Is(err, ErrEngine) {
			t.Error("missing symbols should be an engine error")
		}
		if errors.Is(err, ErrConfig) {
			t.Error("missing symbols should not be a config error")
		}
	})
}
