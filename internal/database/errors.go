package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrQueueFull = errors.New("database: connection queue is full")
	ErrClosed    = errors.New("database: manager is closed")
)

// Fragments of driver messages that mean the socket under a pooled
// connection is gone.
var connectionLostMessages = []string{
	"database is closed",
	"connection reset",
	"broken pipe",
	"invalid connection",
	"server has gone away",
	"lost connection",
	"connection refused",
	"i/o timeout",
	"bad connection",
}

// IsConnectionLost reports whether err means the connection (or the whole
// pool) is unusable and a fresh pool could succeed.
func IsConnectionLost(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		// 2006 server gone away, 2013 lost connection during query
		return mysqlErr.Number == 2006 || mysqlErr.Number == 2013
	}

	msg := strings.ToLower(err.Error())
	for _, fragment := range connectionLostMessages {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

// IsDuplicateKey reports a unique constraint violation.
func IsDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports a write that references a missing parent row
// or deletes a row that is still referenced.
func IsForeignKeyViolation(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1451 || mysqlErr.Number == 1452
	}
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
