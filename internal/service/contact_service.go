package service

import (
	"context"
	"log"
	"strings"

	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/dom/nonprofit-site/internal/repository"
	"github.com/google/uuid"
)

// ContactNotifier forwards new submissions to staff (mail relay, queue...).
type ContactNotifier interface {
	NotifyContact(ctx context.Context, contact *domain.Contact) error
}

type ContactService struct {
	contactRepo repository.ContactRepository
	changes     ChangePublisher
	notifier    ContactNotifier
}

func NewContactService(contactRepo repository.ContactRepository, changes ChangePublisher, notifier ContactNotifier) *ContactService {
	if changes == nil {
		changes = noopPublisher{}
	}
	return &ContactService{
		contactRepo: contactRepo,
		changes:     changes,
		notifier:    notifier,
	}
}

func (s *ContactService) GetAll(ctx context.Context) ([]*domain.Contact, error) {
	return s.contactRepo.GetAll(ctx)
}

func (s *ContactService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error) {
	return s.contactRepo.GetByID(ctx, id)
}

// Submit stores a public contact-form submission. Notification is best
// effort: a failed notify is logged and the stored contact is still returned.
func (s *ContactService) Submit(ctx context.Context, input *domain.Contact) (*domain.Contact, error) {
	contact := &domain.Contact{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Phone:   strings.TrimSpace(input.Phone),
		Subject: strings.TrimSpace(input.Subject),
		Message: strings.TrimSpace(input.Message),
		Date:    now(),
	}

	if err := contact.Validate(); err != nil {
		return nil, err
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyContact(ctx, contact); err != nil {
			log.Printf("WARN [contact.Submit] contactID=%s notify failed: %v", contact.ID, err)
		}
	}

	s.changes.Publish(domain.ResourceChange{
		Action:   domain.ChangeCreated,
		Resource: domain.ResourceContact,
		ID:       contact.ID,
		Title:    contact.Subject,
		At:       contact.Date,
	})
	return contact, nil
}

func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.contactRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.changes.Publish(domain.ResourceChange{
		Action:   domain.ChangeDeleted,
		Resource: domain.ResourceContact,
		ID:       id,
		At:       now(),
	})
	return nil
}
