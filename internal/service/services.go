package service

import (
	"time"

	"github.com/dom/nonprofit-site/internal/config"
	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/dom/nonprofit-site/internal/repository"
)

// ChangePublisher receives every successful mutation. Implementations must
// not block the request path.
type ChangePublisher interface {
	Publish(change domain.ResourceChange)
}

type noopPublisher struct{}

func (noopPublisher) Publish(domain.ResourceChange) {}

type Services struct {
	Auth     *AuthService
	Events   *EventService
	Projects *ProjectService
	Contacts *ContactService
}

// NewServices wires the service layer. changes and notifier may be nil.
func NewServices(repos *repository.Repositories, cfg *config.Config, changes ChangePublisher, notifier ContactNotifier) *Services {
	if changes == nil {
		changes = noopPublisher{}
	}
	return &Services{
		Auth:     NewAuthService(repos.User, cfg),
		Events:   NewEventService(repos.Event, changes, cfg.MaxImageBytes),
		Projects: NewProjectService(repos.Project, changes, cfg.MaxImageBytes),
		Contacts: NewContactService(repos.Contact, changes, notifier),
	}
}

// now is truncated to the database's microsecond precision so the values
// returned from a write match what a later read returns.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// touch returns a modification time strictly after created.
func touch(created time.Time) time.Time {
	t := now()
	if !t.After(created) {
		t = created.Add(time.Microsecond)
	}
	return t
}
