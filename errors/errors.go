package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode   Phase = "encode"   // guest value to boundary
	PhaseDecode   Phase = "decode"   // boundary value to guest
	PhaseResolve  Phase = "resolve"  // handle lookup
	PhaseDispatch Phase = "dispatch" // callback invocation
	PhaseLoad     Phase = "load"     // module loading
	PhaseHost     Phase = "host"     // host function binding and execution
	PhaseStorage  Phase = "storage"  // persistent blob storage
	PhaseConfig   Phase = "config"   // configuration and catalog parsing
)

// Kind categorizes the error
type Kind string

const (
	KindOverflow       Kind = "conversion_overflow"
	KindNullHandle     Kind = "null_handle"
	KindInvalidEnum    Kind = "unknown_enum_value"
	KindShapeMismatch  Kind = "persistent_data_shape_mismatch"
	KindInvalidData    Kind = "invalid_data"
	KindInvalidInput   Kind = "invalid_input"
	KindNotFound       Kind = "not_found"
	KindNotInitialized Kind = "not_initialized"
	KindMissingExport  Kind = "missing_export"
	KindRegistration   Kind = "registration"
	KindInstantiation  Kind = "instantiation"
	KindClosed         Kind = "closed"
	KindGuestFailure   Kind = "guest_failure"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value   any
	Cause   error
	Phase   Phase
	Kind    Kind
	GoType  string
	ABIType string
	Detail  string
	Path    []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.ABIType != "" {
		b.WriteString(": ")
		switch {
		case e.GoType != "" && e.ABIType != "":
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", boundary type ")
			b.WriteString(e.ABIType)
		case e.GoType != "":
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		default:
			b.WriteString("boundary type ")
			b.WriteString(e.ABIType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.ABIType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
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
// A target with an empty Phase matches any phase of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
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

// Path sets the callback or field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// ABIType sets the boundary type name (i32, i64, f32)
func (b *Builder) ABIType(t string) *Builder {
	b.err.ABIType = t
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

// Sentinels for errors.Is checks that only care about the Kind.
var (
	ErrConversionOverflow          = &Error{Kind: KindOverflow}
	ErrNullHandle                  = &Error{Kind: KindNullHandle}
	ErrUnknownEnumValue            = &Error{Kind: KindInvalidEnum}
	ErrPersistentDataShapeMismatch = &Error{Kind: KindShapeMismatch}
	ErrClosed                      = &Error{Kind: KindClosed}
	ErrNotFound                    = &Error{Kind: KindNotFound}
	ErrMissingExport               = &Error{Kind: KindMissingExport}
)

// Guest failure constructors

// Overflow creates a conversion overflow error
func Overflow(phase Phase, path []string, value any, targetType string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindOverflow,
		Path:    path,
		ABIType: targetType,
		Detail:  fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:   value,
	}
}

// NullHandle creates an error for a zero or never-issued instance handle
func NullHandle(handle int32) *Error {
	detail := fmt.Sprintf("handle %d was never issued", handle)
	if handle == 0 {
		detail = "handle is null"
	}
	return &Error{
		Phase:   PhaseResolve,
		Kind:    KindNullHandle,
		ABIType: "i32",
		Detail:  detail,
		Value:   handle,
	}
}

// InvalidEnum creates an unknown enum value error
func InvalidEnum(phase Phase, path []string, value any, enumType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidEnum,
		Path:   path,
		GoType: enumType,
		Detail: fmt.Sprintf("invalid enum value %v for %s", value, enumType),
		Value:  value,
	}
}

// ShapeMismatch creates a persistent data length mismatch error
func ShapeMismatch(phase Phase, path []string, got, want int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindShapeMismatch,
		Path:   path,
		Detail: fmt.Sprintf("persistent data is %d bytes, expected %d", got, want),
		Value:  got,
	}
}

// GuestFailure wraps a trapped guest failure reported during a callback
func GuestFailure(callback string, cause error) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindGuestFailure,
		Path:   []string{callback},
		Detail: "guest callback failed",
		Cause:  cause,
	}
}

// Host and tooling constructors

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
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

// NotInitialized creates a not-initialized error
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// Closed creates an error for operations on a terminated session
func Closed(what string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s is closed", what),
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

// Registration creates a host function registration error
func Registration(module, name string, cause error) *Error {
	return &Error{
		Phase:  PhaseHost,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s#%s", module, name),
		Cause:  cause,
	}
}

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInstantiation,
		Detail: "instantiate module",
		Cause:  cause,
	}
}

// Load creates a module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// MissingExportsError is returned when a guest module lacks required entry points
type MissingExportsError struct {
	Exports []string
}

// NewMissingExportsError creates an error from a list of export names
func NewMissingExportsError(exports []string) *MissingExportsError {
	return &MissingExportsError{Exports: append([]string(nil), exports...)}
}

func (e *MissingExportsError) Error() string {
	if len(e.Exports) == 0 {
		return "[load] missing_export: no exports specified"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("guest is missing %d required export(s):", len(e.Exports)))
	for _, name := range e.Exports {
		b.WriteString("\n  - ")
		b.WriteString(name)
	}
	return b.String()
}

// Is reports whether target is a MissingExportsError or an *Error of kind
// KindMissingExport.
func (e *MissingExportsError) Is(target error) bool {
	switch t := target.(type) {
	case *MissingExportsError:
		return true
	case *Error:
		return t.Kind == KindMissingExport && (t.Phase == "" || t.Phase == PhaseLoad)
	}
	return false
}
