// Package repository implements the persistence layer over database/sql.
// This file defines sentinel errors shared by the repositories so handlers
// can translate failure scenarios into HTTP codes: ErrNotFound becomes 404,
// ErrConflict and ErrHasDependents become 409, ErrNoRowsAffected becomes
// 400 (an update that matched no row).
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write cannot proceed because of the
// store's state: a failed insert, a delete that removed nothing, or a
// foreign-key violation that slipped past the integrity guard.
var ErrConflict = errors.New("conflict")

// ErrHasDependents is returned by the integrity guard when dependent rows
// still reference the row about to be deleted.
var ErrHasDependents = errors.New("dependent rows exist")

// ErrUsernameExists is returned when a user insert collides with the
// unique username index.
var ErrUsernameExists = errors.New("username already exists")

// ErrNoRowsAffected is returned when an update matched no row.
var ErrNoRowsAffected = errors.New("no rows affected")

// isDuplicate reports whether err is a MySQL duplicate-key error (1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
