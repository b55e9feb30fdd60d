package repositories

import (
	"context"
	"time"

	"github.com/anonto42/blog-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RevokedTokenRepository keeps the ids of logged-out session tokens until they expire.
type RevokedTokenRepository interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

// PostgresRevokedTokenRepository implements RevokedTokenRepository for PostgreSQL
type PostgresRevokedTokenRepository struct {
	db *gorm.DB
}

func NewPostgresRevokedTokenRepository(db *gorm.DB) *PostgresRevokedTokenRepository {
	return &PostgresRevokedTokenRepository{db: db}
}

// Revoke is idempotent: logging out twice with the same token is not an error.
func (r *PostgresRevokedTokenRepository) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	token := &models.RevokedToken{JTI: jti, ExpiresAt: expiresAt}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(token).Error
}

func (r *PostgresRevokedTokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RevokedToken{}).
		Where("jti = ? AND expires_at > ?", jti, time.Now()).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresRevokedTokenRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", time.Now()).Delete(&models.RevokedToken{})
	return res.RowsAffected, res.Error
}
