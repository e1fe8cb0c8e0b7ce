package postgres

import (
	"errors"

	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/dom/nonprofit-site/internal/repository"
	"gorm.io/gorm"
)

// translate maps gorm errors onto the repository/domain taxonomy.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicate
	}
	return &domain.StorageError{Op: op, Err: err}
}

// affected reports ErrNotFound when a write matched no rows.
func affected(op string, res *gorm.DB) error {
	if res.Error != nil {
		return translate(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
