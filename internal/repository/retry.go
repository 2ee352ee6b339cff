// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"strings"
	"time"

	"boardswap/internal/models"
	"boardswap/internal/observability"
)

// maxTxRetries bounds how many times a conflicted transaction is replayed
// before the failure is surfaced to the caller.
const maxTxRetries = 3

// retryableFragments are substrings of driver errors that indicate a
// transient write conflict: PostgreSQL serialization failures and deadlocks,
// and SQLite lock contention in tests.
var retryableFragments = []string{
	"SQLSTATE 40001",
	"SQLSTATE 40P01",
	"deadlock detected",
	"database is locked",
	"database table is locked",
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, fragment := range retryableFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

// withConflictRetry runs fn, replaying it on transient store conflicts with a
// short backoff. Conflicts that survive every attempt surface as
// StoreUnavailable; all other errors pass through untouched.
func withConflictRetry(ctx context.Context, operation string, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		if attempt > 0 {
			observability.TxConflictRetries.WithLabelValues(operation).Inc()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 25 * time.Millisecond):
			}
		}
		err = fn()
		if !isRetryable(err) {
			return err
		}
	}
	return models.NewStoreUnavailableError(err)
}
