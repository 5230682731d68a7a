// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// nowFunc supplies timestamps for raw SQL writes. Raw statements bypass
// GORM's auto-timestamps, and passing the time as a parameter keeps the
// SQL portable between postgres and the sqlite test driver.
var nowFunc = time.Now

// isUniqueConstraintError reports whether err is a unique constraint
// violation. Checks the pgx error code first, then falls back to message
// matching so the sqlite-backed tests behave the same way.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
