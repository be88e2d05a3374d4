package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/articmaze/sizeapp/internal/domain"
	"github.com/articmaze/sizeapp/pkg/errors"
)

type settingsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *sql.DB, logger *zap.Logger) *settingsRepository {
	return &settingsRepository{
		db:     db,
		logger: logger,
	}
}

func (r *settingsRepository) GetByShop(ctx context.Context, shop string) (*domain.Settings, error) {
	query := `
		SELECT id, shop, app_activated, created_at, updated_at
		FROM settings
		WHERE shop = $1
	`
	var s domain.Settings
	err := r.db.QueryRowContext(ctx, query, shop).Scan(
		&s.ID, &s.Shop, &s.AppActivated, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "settings", ID: shop}
	}
	if err != nil {
		r.logger.Error("Failed to get settings", zap.Error(err), zap.String("shop", shop))
		return nil, err
	}
	return &s, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, s *domain.Settings) error {
	query := `
		INSERT INTO settings (id, shop, app_activated, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (shop) DO UPDATE SET
			app_activated = EXCLUDED.app_activated,
			updated_at = EXCLUDED.updated_at
	`
	now := time.Now()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query, s.ID, s.Shop, s.AppActivated, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to upsert settings", zap.Error(err), zap.String("shop", s.Shop))
		return err
	}
	return nil
}
