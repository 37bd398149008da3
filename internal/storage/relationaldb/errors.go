package relationaldb

import (
	"errors"
	"fmt"
	"strings"
)

// Configuration errors
var (
	ErrMissingHost            = errors.New("database host is required")
	ErrMissingDatabase        = errors.New("database name is required")
	ErrMissingUsername        = errors.New("database username is required")
	ErrInvalidPort            = errors.New("invalid database port")
	ErrInvalidDriver          = errors.New("invalid database driver")
	ErrInvalidMaxOpenConns    = errors.New("max open connections must be >= 0")
	ErrInvalidMaxIdleConns    = errors.New("max idle connections must be >= 0")
	ErrMaxIdleExceedsMaxOpen  = errors.New("max idle connections cannot exceed max open connections")
	ErrInvalidTimeout         = errors.New("timeout must be positive")
	ErrInvalidConnMaxLifetime = errors.New("connection max lifetime must be >= 0")
)

// History errors
var (
	ErrDatabaseClosed         = errors.New("history database is closed")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrDuplicateEntry         = errors.New("duplicate entry")
	ErrInvalidTransactionHash = errors.New("invalid transaction hash")
)

// ErrorType classifies a DatabaseError.
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeConfiguration
	ErrorTypeConnection
	ErrorTypeTransaction
	ErrorTypeData
	ErrorTypeConstraint
	ErrorTypeQuery
	ErrorTypeSchema
)

var errorTypeNames = [...]string{
	ErrorTypeUnknown:       "unknown",
	ErrorTypeConfiguration: "configuration",
	ErrorTypeConnection:    "connection",
	ErrorTypeTransaction:   "transaction",
	ErrorTypeData:          "data",
	ErrorTypeConstraint:    "constraint",
	ErrorTypeQuery:         "query",
	ErrorTypeSchema:        "schema",
}

func (t ErrorType) String() string {
	if int(t) < 0 || int(t) >= len(errorTypeNames) {
		return errorTypeNames[ErrorTypeUnknown]
	}
	return errorTypeNames[t]
}

// DatabaseError is a history backend failure tagged with the operation that
// hit it.
type DatabaseError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *DatabaseError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s %s: %s", e.Type, e.Operation, e.Message)
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Type, e.Operation, e.Message, e.Cause)
}

func (e *DatabaseError) Unwrap() error { return e.Cause }

// Retryable reports whether running the operation again may succeed.
// Connection failures always qualify; transaction and query failures only
// when the driver reported something transient.
func (e *DatabaseError) Retryable() bool {
	switch e.Type {
	case ErrorTypeConnection:
		return true
	case ErrorTypeTransaction, ErrorTypeQuery:
		return transient(e.Cause)
	}
	return false
}

// NewDatabaseError creates a DatabaseError of the given type.
func NewDatabaseError(t ErrorType, operation, message string, cause error) *DatabaseError {
	return &DatabaseError{Type: t, Operation: operation, Message: message, Cause: cause}
}

func NewConfigurationError(op, msg string, cause error) *DatabaseError {
	return NewDatabaseError(ErrorTypeConfiguration, op, msg, cause)
}

func NewConnectionError(op, msg string, cause error) *DatabaseError {
	return NewDatabaseError(ErrorTypeConnection, op, msg, cause)
}

func NewTransactionError(op, msg string, cause error) *DatabaseError {
	return NewDatabaseError(ErrorTypeTransaction, op, msg, cause)
}

func NewDataError(op, msg string, cause error) *DatabaseError {
	return NewDatabaseError(ErrorTypeData, op, msg, cause)
}

func NewConstraintError(op, msg string, cause error) *DatabaseError {
	return NewDatabaseError(ErrorTypeConstraint, op, msg, cause)
}

func NewQueryError(op, msg string, cause error) *DatabaseError {
	return NewDatabaseError(ErrorTypeQuery, op, msg, cause)
}

func NewSchemaError(op, msg string, cause error) *DatabaseError {
	return NewDatabaseError(ErrorTypeSchema, op, msg, cause)
}

// Substrings the sqlite and postgres drivers use for conditions that clear
// up on their own.
var transientMarkers = []string{
	"connection refused",
	"connection reset",
	"database is locked",
	"deadlock",
	"timeout",
	"busy",
	"temporary",
}

func transient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// IsQueryError reports whether err is, or wraps, a query DatabaseError.
func IsQueryError(err error) bool {
	var dbErr *DatabaseError
	return errors.As(err, &dbErr) && dbErr.Type == ErrorTypeQuery
}

// IsRetryable reports whether err is worth retrying. Errors from outside
// this package are judged by their message.
func IsRetryable(err error) bool {
	var dbErr *DatabaseError
	if errors.As(err, &dbErr) {
		return dbErr.Retryable()
	}
	return transient(err)
}

// withOperation re-tags err with op. A DatabaseError keeps its type; any
// other error becomes ErrorTypeUnknown.
func withOperation(err error, op string) error {
	if err == nil {
		return nil
	}
	var dbErr *DatabaseError
	if errors.As(err, &dbErr) {
		tagged := *dbErr
		tagged.Operation = op
		return &tagged
	}
	return NewDatabaseError(ErrorTypeUnknown, op, "failed", err)
}
