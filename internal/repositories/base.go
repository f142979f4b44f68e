package repositories

import (
	"database/sql"

	intconfig "busbackend/internal/config"
	intdb "busbackend/internal/db"
)

// conn picks the transaction when one is bound, then the explicit DB, then the
// shared connection.
func conn(db *sql.DB, tx *sql.Tx) intdb.Execer {
	if tx != nil {
		return tx
	}
	if db != nil {
		return db
	}
	return intconfig.DB
}
