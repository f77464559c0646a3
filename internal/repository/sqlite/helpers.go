package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"netcollector/internal/repository"

	sqlite3 "modernc.org/sqlite"
)

// SQLite primary result code for constraint failures. The extended code
// narrows the class (787 = foreign key, 2067 = unique, ...); the low
// byte is always 19.
const sqliteConstraint = 19

// mapError translates driver errors into the repository taxonomy.
// Constraint failures mean the caller referenced a nonexistent foreign
// key (unique conflicts are absorbed by the upserts and never surface
// here); anything else means the backend itself is unusable.
func (s *Store) mapError(op string, err error) error {
	var se *sqlite3.Error
	if errors.As(err, &se) && se.Code()&0xff == sqliteConstraint {
		return fmt.Errorf("%s: %w: %v", op, repository.ErrConstraintViolation, err)
	}
	return fmt.Errorf("%s: %w: %v", op, repository.ErrStorageUnavailable, err)
}

// stringToNull converts "" to NULL
func stringToNull(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

// int64PtrToNull converts a nil pointer to NULL
func int64PtrToNull(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// nullToString converts NULL to ""
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// nullToInt64Ptr converts NULL to a nil pointer
func nullToInt64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}
