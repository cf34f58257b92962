// Package repository provides data access layer implementations for the application.
package repository

import "strings"

const (
	defaultLimit = 20
	maxLimit     = 100
)

// normalizePage clamps 1-based page/limit values and returns the SQL offset.
func normalizePage(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit, (page - 1) * limit
}

// likePattern builds a case-insensitive substring pattern. Queries compare
// LOWER(column) LIKE it, which behaves identically on PostgreSQL and the
// SQLite used in tests.
func likePattern(q string) string {
	return "%" + strings.ToLower(q) + "%"
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL SQLSTATE 23505; SQLite reports "UNIQUE constraint failed".
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
