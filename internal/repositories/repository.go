package repositories

import (
	"errors"
	"fmt"

	"github.com/anonto42/buddyscript/backend/internal/models"
	"gorm.io/gorm"
)

// selectUserSummary limits preloaded users to their public columns.
func selectUserSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "first_name", "last_name")
}

// notFoundOr turns gorm.ErrRecordNotFound into a NOT_FOUND AppError and wraps everything else.
func notFoundOr(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return fmt.Errorf("load %s %v: %w", resource, id, err)
}
