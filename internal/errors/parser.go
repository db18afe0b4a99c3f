package errors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes we classify.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ErrorInfo is the client-facing code and message for an error
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError classifies persistence and connectivity errors without leaking
// driver detail. context names the failed operation, e.g. "create product".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: defaultMessage(context)}
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return ErrorInfo{Code: appErr.Code, Message: appErr.Message}
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrorInfo{Code: ResourceNotFound, Message: "Not found."}
	case IsUniqueViolation(err):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "A record with these values already exists."}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrorInfo{Code: ResourceNotFound, Message: "A referenced record does not exist."}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return ErrorInfo{Code: ResourceNotFound, Message: "A referenced record does not exist."}
		case pgNotNullViolation:
			return ErrorInfo{Code: ValidationRequired, Message: "A required value is missing."}
		case pgCheckViolation:
			return ErrorInfo{Code: ValidationInvalidInput, Message: "A value is out of range."}
		}
		return ErrorInfo{Code: InternalDatabaseError, Message: defaultMessage(context)}
	}

	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A backing service is unavailable. Please try again later.",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: defaultMessage(context)}
}

// IsUniqueViolation reports a duplicate-key failure from either a
// translated gorm error or a raw Postgres error.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

// IsExpected reports whether err is a caller-correctable outcome rather than a fault
func IsExpected(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, gorm.ErrRecordNotFound)
}

func defaultMessage(context string) string {
	lower := strings.ToLower(context)
	switch {
	case strings.Contains(lower, "create"):
		return "Failed to create the resource. Please try again later."
	case strings.Contains(lower, "update"):
		return "Failed to update the resource. Please try again later."
	case strings.Contains(lower, "delete"):
		return "Failed to delete the resource. Please try again later."
	}
	return "A server error occurred. Please try again later."
}
