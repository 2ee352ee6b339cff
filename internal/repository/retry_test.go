package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"boardswap/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestWithConflictRetryPassesThroughSuccess(t *testing.T) {
	t.Parallel()
	calls := 0
	err := withConflictRetry(context.Background(), "test", func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithConflictRetryPassesThroughTerminalErrors(t *testing.T) {
	t.Parallel()
	terminal := models.NewNotFoundError("listing", "l1")
	calls := 0
	err := withConflictRetry(context.Background(), "test", func() error {
		calls++
		return terminal
	})
	assert.Equal(t, 1, calls, "terminal errors must not be retried")
	assert.Same(t, terminal, err)
}

func TestWithConflictRetryReplaysConflicts(t *testing.T) {
	t.Parallel()
	calls := 0
	err := withConflictRetry(context.Background(), "test", func() error {
		calls++
		if calls < 3 {
			return errors.New("ERROR: could not serialize access (SQLSTATE 40001)")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithConflictRetryExhaustsToStoreUnavailable(t *testing.T) {
	t.Parallel()
	calls := 0
	err := withConflictRetry(context.Background(), "test", func() error {
		calls++
		return errors.New("deadlock detected")
	})
	assert.Equal(t, maxTxRetries, calls)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeStoreUnavailable, appErr.Code)
}

func TestWithConflictRetryHonorsContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := withConflictRetry(ctx, "test", func() error {
		calls++
		return errors.New("database is locked")
	})
	assert.Equal(t, 1, calls, "cancellation stops the replay loop")
	assert.ErrorIs(t, err, context.Canceled)
}

// setupMockDB opens a GORM connection over sqlmock so driver-level errors can
// be scripted.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestStarRetriesSerializationFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewListingRepository(db)

	conflict := errors.New("ERROR: could not serialize access due to concurrent update (SQLSTATE 40001)")

	// First attempt conflicts on the existence check and rolls back.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "listings"`)).
		WithArgs("l1").
		WillReturnError(conflict)
	mock.ExpectRollback()

	// The replayed attempt goes through.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "listings"`)).
		WithArgs("l1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "stars"`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "listings" SET "star_count"=star_count + $1`)).
		WithArgs(1, "l1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	changed, err := repo.Star(context.Background(), "l1", "u1")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStarSurfacesPersistentConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewListingRepository(db)

	conflict := errors.New("ERROR: deadlock detected (SQLSTATE 40P01)")
	for i := 0; i < maxTxRetries; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "listings"`)).
			WithArgs("l1").
			WillReturnError(conflict)
		mock.ExpectRollback()
	}

	_, err := repo.Star(context.Background(), "l1", "u1")
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeStoreUnavailable, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStarRollsBackWhenListingVanishesMidToggle(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewListingRepository(db)

	// The listing passes the existence check, but a concurrent delete commits
	// before the counter bump: zero rows match, and the membership insert
	// must roll back with the transaction.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "listings"`)).
		WithArgs("l1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "stars"`)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "listings" SET "star_count"=star_count + $1`)).
		WithArgs(1, "l1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	changed, err := repo.Star(context.Background(), "l1", "u1")
	assert.False(t, changed)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFound, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
