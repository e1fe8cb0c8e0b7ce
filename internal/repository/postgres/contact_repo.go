package postgres

import (
	"context"

	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *contactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) GetAll(ctx context.Context) ([]*domain.Contact, error) {
	contacts := []*domain.Contact{}
	err := r.db.WithContext(ctx).Order("date DESC").Find(&contacts).Error
	if err != nil {
		return nil, translate("list contacts", err)
	}
	return contacts, nil
}

func (r *contactRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.db.WithContext(ctx).First(&contact, "id = ?", id).Error
	if err != nil {
		return nil, translate("get contact", err)
	}
	return &contact, nil
}

func (r *contactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	return translate("create contact", r.db.WithContext(ctx).Create(contact).Error)
}

func (r *contactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected("delete contact", r.db.WithContext(ctx).Delete(&domain.Contact{}, "id = ?", id))
}
