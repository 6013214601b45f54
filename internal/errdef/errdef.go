package errdef

import (
	"errors"
	"fmt"
	"strings"
)

type Code string

const (
	CodeUnknown    Code = "unknown"
	CodeConfig     Code = "config"
	CodeFilesystem Code = "filesystem"
	CodeProtocol   Code = "protocol"
	CodeDocument   Code = "document"
	CodeTelemetry  Code = "telemetry"
)

// Error carries a category code alongside the wrapped cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func New(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: sprintf(format, args...)}
}

// Wrap returns nil when err is nil so call sites can wrap unconditionally.
func Wrap(code Code, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: sprintf(format, args...), Err: err}
}

// CodeOf reports the code of the outermost coded error in the chain.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return CodeUnknown
}

// Message returns the human readable part of err without code decoration.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimSpace(err.Error())
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
