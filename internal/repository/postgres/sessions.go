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

type sessionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *sql.DB, logger *zap.Logger) *sessionRepository {
	return &sessionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *sessionRepository) GetByShop(ctx context.Context, shop string) (*domain.Session, error) {
	query := `
		SELECT id, shop, access_token, scope, shop_id, is_online, created_at, updated_at
		FROM sessions
		WHERE shop = $1
	`
	var s domain.Session
	var shopID sql.NullString
	err := r.db.QueryRowContext(ctx, query, shop).Scan(
		&s.ID, &s.Shop, &s.AccessToken, &s.Scope, &shopID, &s.IsOnline, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "session", ID: shop}
	}
	if err != nil {
		r.logger.Error("Failed to get session", zap.Error(err), zap.String("shop", shop))
		return nil, err
	}
	if shopID.Valid {
		s.ShopID = &shopID.String
	}
	return &s, nil
}

func (r *sessionRepository) Upsert(ctx context.Context, s *domain.Session) error {
	query := `
		INSERT INTO sessions (id, shop, access_token, scope, shop_id, is_online, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (shop) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			scope = EXCLUDED.scope,
			is_online = EXCLUDED.is_online,
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

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Shop, s.AccessToken, s.Scope, s.ShopID, s.IsOnline, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to upsert session", zap.Error(err), zap.String("shop", s.Shop))
		return err
	}
	return nil
}

func (r *sessionRepository) UpdateShopID(ctx context.Context, shop, shopID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET shop_id = $1, updated_at = $2 WHERE shop = $3`,
		shopID, time.Now(), shop,
	)
	if err != nil {
		r.logger.Error("Failed to update session shop ID", zap.Error(err), zap.String("shop", shop))
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &errors.ErrNotFound{Resource: "session", ID: shop}
	}
	return nil
}

func (r *sessionRepository) DeleteByShop(ctx context.Context, shop string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE shop = $1`, shop); err != nil {
		r.logger.Error("Failed to delete sessions", zap.Error(err), zap.String("shop", shop))
		return err
	}
	return nil
}
