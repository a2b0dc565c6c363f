package container

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies container failures.
type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeNotFound
	ErrCodeTypeMismatch
	ErrCodeInvalidDescriptor
	ErrCodeScopeNotFound
	ErrCodeSetupFailed
	ErrCodeCircular
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:           "UNKNOWN",
	ErrCodeNotFound:          "NOT_FOUND",
	ErrCodeTypeMismatch:      "TYPE_MISMATCH",
	ErrCodeInvalidDescriptor: "INVALID_DESCRIPTOR",
	ErrCodeScopeNotFound:     "SCOPE_NOT_FOUND",
	ErrCodeSetupFailed:       "SETUP_FAILED",
	ErrCodeCircular:          "CIRCULAR_RESOLUTION",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Error is the error type returned by every container operation.
// Two errors compare equal under errors.Is when their codes match.
type Error struct {
	Code    ErrorCode
	Message string
	Scope   string
	Key     string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("[" + e.Code.String() + "]")

	if e.Scope != "" {
		b.WriteString(fmt.Sprintf(" scope=%q", e.Scope))
	}
	if e.Key != "" {
		b.WriteString(fmt.Sprintf(" key=%q", e.Key))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinels for errors.Is.
var (
	ErrNotFound          = &Error{Code: ErrCodeNotFound, Message: "not found"}
	ErrTypeMismatch      = &Error{Code: ErrCodeTypeMismatch, Message: "type mismatch"}
	ErrInvalidDescriptor = &Error{Code: ErrCodeInvalidDescriptor, Message: "invalid descriptor"}
	ErrScopeNotFound     = &Error{Code: ErrCodeScopeNotFound, Message: "scope not found"}
	ErrCircular          = &Error{Code: ErrCodeCircular, Message: "circular resolution"}
)

func newError(code ErrorCode, scope, key, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Scope:   scope,
		Key:     key,
		Cause:   cause,
	}
}

func errNotFound(scope, key string) *Error {
	return newError(ErrCodeNotFound, scope, key, "no registration reachable for key", nil)
}

func errTypeMismatch(scope, key, want string, got any) *Error {
	return newError(
		ErrCodeTypeMismatch, scope, key,
		fmt.Sprintf("registered %s is not assignable to %s", TypeKeyOf(got), want),
		nil,
	)
}

func errInvalidDescriptor(scope string, d Descriptor, reason string) *Error {
	return newError(ErrCodeInvalidDescriptor, scope, d.key, fmt.Sprintf("%s descriptor: %s", d.kind, reason), nil)
}

func errCircular(scope, key string) *Error {
	return newError(ErrCodeCircular, scope, key, "factory resolved its own key while running", nil)
}

func errScopeNotFound(scope string) *Error {
	return newError(ErrCodeScopeNotFound, scope, "", "no registry declared under this name", nil)
}

// IsNotFound reports whether err means nothing was registered for the key.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeNotFound
}

// IsTypeMismatch reports whether err means a registration existed but had the wrong type.
func IsTypeMismatch(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeTypeMismatch
}

func IsInvalidDescriptor(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeInvalidDescriptor
}

// IsCircular reports whether err means a lazy factory asked for its own key.
func IsCircular(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeCircular
}

func IsScopeNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeScopeNotFound
}

// SetupError wraps a failure raised while a scope or root was being set up.
func SetupError(scope string, cause error) *Error {
	return newError(ErrCodeSetupFailed, scope, "", "setup failed", cause)
}

func IsSetupFailed(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeSetupFailed
}
