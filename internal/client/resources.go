package client

import (
	"context"
	"net/http"

	"github.com/dom/nonprofit-site/internal/api/httpx"
	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/dom/nonprofit-site/internal/session"
	"github.com/google/uuid"
)

func (c *Client) Register(ctx context.Context, req session.RegisterRequest) (*session.Credentials, error) {
	var creds session.Credentials
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*session.Credentials, error) {
	body := map[string]string{"email": email, "password": password}
	var creds session.Credentials
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func (c *Client) Me(ctx context.Context) (*session.User, error) {
	var user session.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Events

func (c *Client) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	var events []*domain.Event
	if err := c.do(ctx, http.MethodGet, "/events", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) GetEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	var event domain.Event
	if err := c.do(ctx, http.MethodGet, "/events/"+id.String(), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) CreateEvent(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	var event domain.Event
	if err := c.do(ctx, http.MethodPost, "/events", e, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id uuid.UUID, e *domain.Event) (*domain.Event, error) {
	var event domain.Event
	if err := c.do(ctx, http.MethodPut, "/events/"+id.String(), e, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	var msg httpx.MessageResponse
	return c.do(ctx, http.MethodDelete, "/events/"+id.String(), nil, &msg)
}

// Projects

func (c *Client) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	var projects []*domain.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) GetProject(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	if err := c.do(ctx, http.MethodGet, "/projects/"+id.String(), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	var project domain.Project
	if err := c.do(ctx, http.MethodPost, "/projects", p, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) UpdateProject(ctx context.Context, id uuid.UUID, p *domain.Project) (*domain.Project, error) {
	var project domain.Project
	if err := c.do(ctx, http.MethodPut, "/projects/"+id.String(), p, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) DeleteProject(ctx context.Context, id uuid.UUID) error {
	var msg httpx.MessageResponse
	return c.do(ctx, http.MethodDelete, "/projects/"+id.String(), nil, &msg)
}

// Contacts

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (c *Client) SubmitContact(ctx context.Context, req ContactRequest) (*domain.Contact, error) {
	var contact domain.Contact
	if err := c.do(ctx, http.MethodPost, "/contacts", req, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (c *Client) ListContacts(ctx context.Context) ([]*domain.Contact, error) {
	var contacts []*domain.Contact
	if err := c.do(ctx, http.MethodGet, "/contacts", nil, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (c *Client) DeleteContact(ctx context.Context, id uuid.UUID) error {
	var msg httpx.MessageResponse
	return c.do(ctx, http.MethodDelete, "/contacts/"+id.String(), nil, &msg)
}
