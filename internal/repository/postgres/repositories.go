package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/articmaze/sizeapp/internal/repository"
)

// NewRepositories creates a new set of repositories
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		Product:  NewProductRepository(db, logger),
		Settings: NewSettingsRepository(db, logger),
		Session:  NewSessionRepository(db, logger),
	}
}
