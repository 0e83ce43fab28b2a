package storage

import (
	"context"
	"errors"
	"time"

	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/mattn/go-sqlite3"
)

// writeRetry bounds how long a write waits for another process holding the
// database lock, on top of the driver's busy timeout.
var writeRetry = common.RetryOptions{
	MaxAttempts:  4,
	InitialDelay: 50 * time.Millisecond,
	MaxDelay:     time.Second,
}

// isBusy reports whether err means the database was locked by another
// connection and the write may succeed later.
func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}

// withWriteRetry runs write, retrying only when the database is busy.
func (s *SQLiteStorage) withWriteRetry(ctx context.Context, write func() error) error {
	return common.WithRetry(ctx, func() error {
		err := write()
		if err == nil || isBusy(err) {
			return err
		}
		return common.Permanent(err)
	}, writeRetry)
}
