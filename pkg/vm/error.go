package vm

import "fmt"

// ErrorCode classifies a runtime fault.
type ErrorCode uint8

// Runtime fault codes
const (
	ErrUnknownVariable ErrorCode = iota
	ErrUnknownFunction
	ErrTypeMismatch
	ErrArityMismatch
	ErrDivideByZero
	ErrIndexOutOfRange
	ErrStackOverflow
	ErrBadArgument
	ErrHostFailure
)

// String returns the code's symbolic name.
func (c ErrorCode) String() string {
	switch c {
	case ErrUnknownVariable:
		return "UnknownVariable"
	case ErrUnknownFunction:
		return "UnknownFunction"
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrArityMismatch:
		return "ArityMismatch"
	case ErrDivideByZero:
		return "DivideByZero"
	case ErrIndexOutOfRange:
		return "IndexOutOfRange"
	case ErrStackOverflow:
		return "StackOverflow"
	case ErrBadArgument:
		return "BadArgument"
	case ErrHostFailure:
		return "HostFailure"
	}
	return "Unknown"
}

// RuntimeError is a script fault. It carries the source position of the
// statement being executed and the call chain at the point of failure, so
// hosts can report script bugs without a debugger.
type RuntimeError struct {
	Code    ErrorCode
	Message string
	Script  string
	Line    int
	Column  int
	Trace   []TraceEntry
}

// TraceEntry is one frame of the script call chain, innermost first.
type TraceEntry struct {
	Function string
	Line     int
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at %s:%d:%d: %s", e.Code, e.Script, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s in %s: %s", e.Code, e.Script, e.Message)
}

// Is supports errors.Is matching on the code via sentinel comparison.
func (e *RuntimeError) Is(target error) bool {
	t, ok := target.(*RuntimeError)
	return ok && t.Code == e.Code && t.Message == ""
}

func newError(code ErrorCode, format string, args ...any) *RuntimeError {
	return &RuntimeError{Code: code, Message: fmt.Sprintf(format, args...)}
}
