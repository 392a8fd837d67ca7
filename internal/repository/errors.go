package repository

import (
	"errors"

	mysqldriver "github.com/go-sql-driver/mysql"
)

const mysqlDuplicateEntry = 1062

// isDuplicate reports whether err is a unique-constraint violation.
// Uniqueness is enforced at the persistence boundary; services translate
// this into the matching business error.
func isDuplicate(err error) bool {
	var myErr *mysqldriver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}
