package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestPostgresRevokedTokenRepository_Revoke(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewPostgresRevokedTokenRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "revoked_tokens"`)).
		WithArgs("jti-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Revoke(context.Background(), "jti-1", time.Now().Add(time.Hour)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRevokedTokenRepository_IsRevoked(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewPostgresRevokedTokenRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "revoked_tokens"`)).
		WithArgs("jti-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "revoked_tokens"`)).
		WithArgs("jti-2", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	revoked, err := repo.IsRevoked(context.Background(), "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = repo.IsRevoked(context.Background(), "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRevokedTokenRepository_PurgeExpired(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewPostgresRevokedTokenRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "revoked_tokens" WHERE expires_at <=`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
