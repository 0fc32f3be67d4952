package database

import (
	"context"
	"errors"
	"net"
	"strings"

	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"booknest/internal/shared"
)

// PostgreSQL SQLSTATE codes the repositories care about
const (
	CodeUniqueViolation      = "23505"
	CodeForeignKeyViolation  = "23503"
	CodeCheckViolation       = "23514"
	CodeInvalidTextRep       = "22P02"
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
)

// MapError translates driver errors into the shared taxonomy.
// AppErrors and pgx.ErrNoRows pass through untouched; unknown errors are returned as-is
// so the caller can wrap them with context.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := shared.AsAppError(err); ok {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case CodeUniqueViolation, CodeSerializationFailure, CodeDeadlockDetected:
			return shared.NewConflictError(err)
		case CodeForeignKeyViolation:
			return shared.NewUnknownTargetError("referenced record")
		case CodeCheckViolation, CodeInvalidTextRep:
			return shared.NewValidationError(pgErr.Message)
		}
		// Class 08: connection exception, 57P0x: server shutting down
		if strings.HasPrefix(pgErr.Code, "08") || strings.HasPrefix(pgErr.Code, "57P0") {
			return shared.NewStoreUnavailableError(err)
		}
		return err
	}

	if isUnavailable(err) {
		return shared.NewStoreUnavailableError(err)
	}

	return err
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
