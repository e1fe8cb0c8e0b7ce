package service

import (
	"context"

	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/dom/nonprofit-site/internal/repository"
	"github.com/google/uuid"
)

type EventService struct {
	eventRepo     repository.EventRepository
	changes       ChangePublisher
	maxImageBytes int
}

func NewEventService(eventRepo repository.EventRepository, changes ChangePublisher, maxImageBytes int) *EventService {
	if changes == nil {
		changes = noopPublisher{}
	}
	return &EventService{
		eventRepo:     eventRepo,
		changes:       changes,
		maxImageBytes: maxImageBytes,
	}
}

func (s *EventService) GetAll(ctx context.Context) ([]*domain.Event, error) {
	return s.eventRepo.GetAll(ctx)
}

func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// Create ignores any id or timestamps present in input.
func (s *EventService) Create(ctx context.Context, input *domain.Event) (*domain.Event, error) {
	ts := now()
	event := &domain.Event{ID: uuid.New(), CreatedAt: ts, UpdatedAt: ts}
	event.Apply(input)

	if err := event.Validate(s.maxImageBytes); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.publish(domain.ChangeCreated, event)
	return event, nil
}

// Update replaces every mutable field. Concurrent updates are last-write-wins.
func (s *EventService) Update(ctx context.Context, id uuid.UUID, input *domain.Event) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	event.Apply(input)
	if err := event.Validate(s.maxImageBytes); err != nil {
		return nil, err
	}
	event.UpdatedAt = touch(event.CreatedAt)

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	s.publish(domain.ChangeUpdated, event)
	return event, nil
}

func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.changes.Publish(domain.ResourceChange{
		Action:   domain.ChangeDeleted,
		Resource: domain.ResourceEvent,
		ID:       id,
		At:       now(),
	})
	return nil
}

func (s *EventService) publish(action domain.ChangeAction, event *domain.Event) {
	s.changes.Publish(domain.ResourceChange{
		Action:   action,
		Resource: domain.ResourceEvent,
		ID:       event.ID,
		Title:    event.Title,
		At:       event.UpdatedAt,
	})
}
