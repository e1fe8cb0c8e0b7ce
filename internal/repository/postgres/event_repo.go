package postgres

import (
	"context"

	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *eventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) GetAll(ctx context.Context) ([]*domain.Event, error) {
	events := []*domain.Event{}
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&events).Error
	if err != nil {
		return nil, translate("list events", err)
	}
	return events, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	var event domain.Event
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if err != nil {
		return nil, translate("get event", err)
	}
	return &event, nil
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	return translate("create event", r.db.WithContext(ctx).Create(event).Error)
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	res := r.db.WithContext(ctx).Model(event).Select("*").Omit("id", "created_at").Updates(event)
	return affected("update event", res)
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected("delete event", r.db.WithContext(ctx).Delete(&domain.Event{}, "id = ?", id))
}
