package repository

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("record already exists")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// StoreError wraps a failure reported by the database driver.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// extended result codes disabled
		return strings.Contains(sqliteErr.Error(), "UNIQUE")
	}
	return false
}
