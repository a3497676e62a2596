package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseValidate  Phase = "validate"  // local input checks
	PhaseLoad      Phase = "load"      // engine library loading
	PhaseConfig    Phase = "config"    // configuration object
	PhaseConstruct Phase = "construct" // speller creation
	PhaseOperation Phase = "operation" // speller methods
	PhaseEnumerate Phase = "enumerate" // draining native enumerations
	PhaseDecode    Phase = "decode"    // engine to Go
	PhaseEncode    Phase = "encode"    // Go to engine
)

// Kind categorizes the error
type Kind string

const (
	KindValidation  Kind = "validation"
	KindConfig      Kind = "config"
	KindEngine      Kind = "engine"
	KindSpeller     Kind = "speller"
	KindReleased    Kind = "released"
	KindUnsupported Kind = "unsupported"
	KindInvalidData Kind = "invalid_data"
	KindNotFound    Kind = "not_found"
)

// Sentinels for errors.Is matching by Kind.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrConfig     = &Error{Kind: KindConfig}
	ErrEngine     = &Error{Kind: KindEngine}
	ErrSpeller    = &Error{Kind: KindSpeller}
	ErrReleased   = &Error{Kind: KindReleased}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Op     string
	Key    string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}

	if e.Key != "" {
		b.WriteString(" key ")
		b.WriteString(e.Key)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// Empty Phase or Kind fields on the target act as wildcards.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	if t.Kind != "" && t.Kind != e.Kind {
		return false
	}
	return t.Phase != "" || t.Kind != ""
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the operation name
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Key sets the configuration key involved
func (b *Builder) Key(key string) *Builder {
	b.err.Key = key
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Validation creates a local validation error. No native call has been made.
func Validation(phase Phase, op, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindValidation,
		Op:     op,
		Detail: detail,
	}
}

// Config creates a configuration error carrying the engine's message
func Config(op, key, msg string) *Error {
	return &Error{
		Phase:  PhaseConfig,
		Kind:   KindConfig,
		Op:     op,
		Key:    key,
		Detail: msg,
	}
}

// Engine creates an engine construction error
func Engine(phase Phase, op, msg string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindEngine,
		Op:     op,
		Detail: msg,
	}
}

// Speller creates an error reported by the speller's error surface
func Speller(op, msg string) *Error {
	return &Error{
		Phase:  PhaseOperation,
		Kind:   KindSpeller,
		Op:     op,
		Detail: msg,
	}
}

// Released creates an error for use of a released or consumed handle
func Released(op, what string) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindReleased,
		Op:     op,
		Detail: fmt.Sprintf("%s already released", what),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, op, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Op:     op,
		Detail: what,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, op, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Op:     op,
		Detail: detail,
		Cause:  cause,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Load creates an engine loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindEngine,
		Op:     "load",
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// MissingSymbolsError is returned when an engine library lacks required entry points
type MissingSymbolsError struct {
	Library string
	Symbols []string
}

func (e *MissingSymbolsError) Error() string {
	if len(e.Symbols) == 0 {
		return "[load] engine: no symbols specified"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s is missing %d entry point(s):", e.Library, len(e.Symbols))
	for _, s := range e.Symbols {
		b.WriteString("\n  - ")
		b.WriteString(s)
	}
	return b.String()
}

// Is reports whether target matches this error type.
// A MissingSymbolsError is also an engine error.
func (e *MissingSymbolsError) Is(target error) bool {
	switch t := target.(type) {
	case *MissingSymbolsError:
		return true
	case *Error:
		return t.Kind == KindEngine && (t.Phase == "" || t.Phase == PhaseLoad)
	}
	return false
}
