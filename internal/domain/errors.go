package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies store and input failures surfaced by operations.
type ErrorCode string

const (
	CodeSchemaViolation     ErrorCode = "schema_violation"
	CodeDuplicateKey        ErrorCode = "duplicate_key"
	CodeDuplicateEnrollment ErrorCode = "duplicate_enrollment"
	CodeNotFound            ErrorCode = "not_found"
	CodeValidation          ErrorCode = "validation"
	CodeInternal            ErrorCode = "internal"
)

type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Fields  []FieldError
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	if msg == "" && len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.Field+": "+f.Error)
		}
		msg = strings.Join(parts, "; ")
	}
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap annotates err with code. An err that already carries a code keeps it.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	return NewError(code, op, err.Error(), err)
}

func FieldsError(code ErrorCode, op string, fields []FieldError) error {
	return &Error{Code: code, Op: strings.TrimSpace(op), Fields: fields}
}

func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

func CodeOf(err error) ErrorCode {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}

// FieldsOf returns per-field details carried by err, if any.
func FieldsOf(err error) []FieldError {
	var e *Error
	if !errors.As(err, &e) {
		return nil
	}
	return e.Fields
}
