package api

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures. Every failure aborts the whole
// multi-table merge; there is no partial result.
type ErrorKind int

const (
	// KindConfig covers invalid run parameters: bad join mode, threshold
	// outside [0,1], zero input tables.
	KindConfig ErrorKind = iota
	// KindSchema covers structural dead ends: a single-column table, no
	// candidate key found, no overlap meeting the threshold.
	KindSchema
	// KindData covers unusable column data met mid-pipeline.
	KindData
)

// String returns the kind name
func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "CONFIG"
	case KindSchema:
		return "SCHEMA"
	case KindData:
		return "DATA"
	default:
		return "UNKNOWN"
	}
}

// Error is the typed pipeline error. Table identifies which input the
// failure happened on, when known.
type Error struct {
	Kind    ErrorKind
	Message string
	Table   string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Table != "" {
		msg = fmt.Sprintf("%s | %s", e.Table, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, msg)
}

// Unwrap returns the wrapped cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a CONFIG error
func NewConfigError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConfig, Message: fmt.Sprintf(format, args...)}
}

// NewSchemaError creates a SCHEMA error attributed to a table
func NewSchemaError(table, format string, args ...interface{}) *Error {
	return &Error{Kind: KindSchema, Table: table, Message: fmt.Sprintf(format, args...)}
}

// NewDataError creates a DATA error attributed to a table
func NewDataError(table, format string, args ...interface{}) *Error {
	return &Error{Kind: KindData, Table: table, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a kind and message to an underlying error
func WrapError(err error, kind ErrorKind, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Cause: err}
}

// IsKind reports whether err is a pipeline error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
