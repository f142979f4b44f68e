package db

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

const (
	errDupEntry        = 1062
	errRowIsReferenced = 1451
	errNoReferencedRow = 1452
)

func mysqlNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

// IsDuplicate reports a unique constraint violation.
func IsDuplicate(err error) bool {
	return mysqlNumber(err) == errDupEntry
}

// IsReferenced reports a delete blocked by a foreign key.
func IsReferenced(err error) bool {
	return mysqlNumber(err) == errRowIsReferenced
}

// IsMissingReference reports an insert pointing at a missing parent row.
func IsMissingReference(err error) bool {
	return mysqlNumber(err) == errNoReferencedRow
}
