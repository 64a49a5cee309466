package sqlite

import (
	"database/sql"
	"errors"
	"strings"
)

// The driver surfaces constraint failures as plain error strings, so
// classification is a substring check.

// isForeignKeyViolation reports whether err is the driver's foreign key
// failure. Item inserts hit this when the owning user does not exist.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// isNoRows reports whether err means the query matched nothing.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
