package db

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

// MySQL server error numbers signalling that a row lock could not be taken.
const (
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// IsLockConflict reports whether err is the store telling us another
// transaction holds (or has just changed) the rows we tried to touch.
func IsLockConflict(err error) bool {
	if err == nil {
		return false
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDeadlock || myErr.Number == mysqlLockWaitTimeout
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked
	}

	return false
}
