package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// retryablePgCodes are Postgres SQLSTATEs worth retrying.
var retryablePgCodes = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"57P03": true, // cannot_connect_now
	"53300": true, // too_many_connections
}

// sqliteBusyPatterns match modernc.org/sqlite busy and locked errors, which
// only carry the condition in their message.
var sqliteBusyPatterns = []string{
	"database is locked",
	"sqlite_busy",
	"database table is locked",
}

// IsRetryable reports whether err is a transient database or network
// failure.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return retryablePgCodes[pgErr.Code] || strings.HasPrefix(pgErr.Code, "08")
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range sqliteBusyPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return strings.Contains(msg, "connection reset by peer") || strings.Contains(msg, "broken pipe")
}
