// Package bizerr models expected domain failures. A business error carries a
// client facing message, an optional numeric code and an internal detail
// message that is logged but never sent to callers.
package bizerr

import (
	"encoding/json"
	"errors"

	"github.com/greendam/greenframe/internal/msgformat"
)

// DefaultCode is reported by errors built without an explicit code. It matches
// the generic failure code of the response envelope.
const DefaultCode = 500

// Error is returned up the call chain by endpoint logic and converted into a
// failure envelope at the request boundary.
type Error struct {
	code          *int
	message       string
	detailMessage string
	cause         error
}

type errorJSON struct {
	Code    *int   `json:"code,omitempty"`
	Message string `json:"message"`
}

// New builds an error without a code; Code reports DefaultCode for it.
func New(message string) *Error {
	return &Error{message: message}
}

// NewWithCode builds an error with an explicit code.
func NewWithCode(message string, code int) *Error {
	return &Error{code: &code, message: message}
}

// Newf fills the sequential "{}" placeholders of template with args.
//
//	bizerr.Newf("user {} has status {}", 42, "banned") // "user 42 has status banned"
//
// Surplus placeholders stay literal and surplus args are ignored.
func Newf(template string, args ...any) *Error {
	return &Error{message: msgformat.Sequential(template, args...)}
}

// Error returns the stored message verbatim.
func (e *Error) Error() string {
	return e.message
}

func (e *Error) Message() string {
	return e.message
}

func (e *Error) DetailMessage() string {
	return e.detailMessage
}

// Code returns the explicit code or DefaultCode when none was set.
func (e *Error) Code() int {
	if e.code == nil {
		return DefaultCode
	}
	return *e.code
}

func (e *Error) HasCode() bool {
	return e.code != nil
}

func (e *Error) SetCode(code int) *Error {
	e.code = &code
	return e
}

func (e *Error) SetMessage(message string) *Error {
	e.message = message
	return e
}

func (e *Error) SetDetailMessage(detail string) *Error {
	e.detailMessage = detail
	return e
}

func (e *Error) SetCause(cause error) *Error {
	e.cause = cause
	return e
}

func (e *Error) Unwrap() error {
	return e.cause
}

// MarshalJSON emits code and message only.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(errorJSON{Code: e.code, Message: e.message})
}

func (e *Error) UnmarshalJSON(b []byte) error {
	var raw errorJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	e.code = raw.Code
	e.message = raw.Message
	return nil
}

// As finds the first business error in err's chain.
func As(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
