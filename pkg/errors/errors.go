package errors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Error is a structured application error shaped after RFC 9457 problem details
type Error struct {
	// Type is a URI reference that identifies the error type
	Type string `json:"type"`

	// Title is a short, human-readable summary of the error
	Title string `json:"title"`

	// Status is an HTTP-like status used for categorization
	Status int `json:"status"`

	// Detail explains this specific occurrence, typically how to fix it
	Detail string `json:"detail,omitempty"`

	// Code is an application-specific error code
	Code ErrorCode `json:"code"`

	// Cause is the underlying error
	Cause error `json:"-"`

	// Fields contains additional context
	Fields map[string]interface{} `json:"fields,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return e.Title
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds detail to the error
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

// WithCause adds a cause to the error
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	if e.Detail == "" && cause != nil {
		e.Detail = cause.Error()
	}
	return e
}

// WithField adds a field to the error context
func (e *Error) WithField(key string, value interface{}) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// WithFields adds multiple fields to the error context
func (e *Error) WithFields(fields map[string]interface{}) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	for k, v := range fields {
		e.Fields[k] = v
	}
	return e
}

// MarshalJSON implements json.Marshaler
func (e *Error) MarshalJSON() ([]byte, error) {
	type Alias Error
	return json.Marshal(&struct {
		*Alias
		CauseMsg string `json:"cause,omitempty"`
	}{
		Alias:    (*Alias)(e),
		CauseMsg: e.causeMessage(),
	})
}

func (e *Error) causeMessage() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return ""
}

// New creates a new Error
func New(code ErrorCode, title string) *Error {
	info := GetErrorInfo(code)
	return &Error{
		Type:   info.Type,
		Title:  title,
		Status: info.Status,
		Code:   code,
		Fields: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(code ErrorCode, cause error, title string) *Error {
	return New(code, title).WithCause(cause)
}

// Is checks if the error is of a specific code
func Is(err error, code ErrorCode) bool {
	var appErr *Error
	if As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// As checks if the error is an application Error
func As(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			err = unwrapper.Unwrap()
		} else {
			break
		}
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	var appErr *Error
	if As(err, &appErr) {
		return appErr.Code
	}
	return ErrUnknown
}

// Redact returns a copy of the error without context fields that may carry
// credential material. The cause is dropped as well since its message is
// not under our control.
func (e *Error) Redact() *Error {
	redacted := &Error{
		Type:   e.Type,
		Title:  e.Title,
		Status: e.Status,
		Detail: e.Detail,
		Code:   e.Code,
		Fields: make(map[string]interface{}),
	}

	for k, v := range e.Fields {
		if !IsSensitiveField(k) {
			redacted.Fields[k] = v
		}
	}

	return redacted
}

// sensitiveFields lists name fragments that mark a field as credential material
var sensitiveFields = []string{
	"password", "pass", "secret", "token", "key", "credential", "auth",
}

// IsSensitiveField reports whether a field name indicates sensitive data.
// Matching is by case-insensitive fragment so "api_key", "key1" and
// "hs_api_key" are all caught.
func IsSensitiveField(field string) bool {
	lower := strings.ToLower(field)
	for _, sensitive := range sensitiveFields {
		if strings.Contains(lower, sensitive) {
			return true
		}
	}
	return false
}
