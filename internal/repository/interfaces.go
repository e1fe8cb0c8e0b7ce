package repository

import (
	"context"

	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type EventRepository interface {
	GetAll(ctx context.Context) ([]*domain.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProjectRepository interface {
	GetAll(ctx context.Context) ([]*domain.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	Create(ctx context.Context, project *domain.Project) error
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ContactRepository interface {
	GetAll(ctx context.Context) ([]*domain.Contact, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error)
	Create(ctx context.Context, contact *domain.Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Repositories struct {
	User    UserRepository
	Event   EventRepository
	Project ProjectRepository
	Contact ContactRepository
}
