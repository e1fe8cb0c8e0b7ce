package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	firstName string
	lastName  string
	email     string
	password  string
	admin     bool
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		firstName: "Test",
		lastName:  "User",
		email:     fmt.Sprintf("user_%s@example.org", uuid.New().String()[:8]),
		password:  "testpassword123",
	}
}

func (b *UserBuilder) WithName(first, last string) *UserBuilder {
	b.firstName = first
	b.lastName = last
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// AsAdmin registers with the configured admin email.
func (b *UserBuilder) AsAdmin() *UserBuilder {
	b.email = AdminEmail
	b.admin = true
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		FirstName:    b.firstName,
		LastName:     b.lastName,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		IsAdmin:      b.admin,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	Token string `json:"token"`
	User  struct {
		ID        string `json:"id"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		IsAdmin   bool   `json:"isAdmin"`
	} `json:"user"`
}

// BuildAndAuthenticate registers the user via the API and returns the user and token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	reqBody := map[string]string{
		"firstName": b.firstName,
		"lastName":  b.lastName,
		"email":     b.email,
		"password":  b.password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	userID, _ := uuid.Parse(authResp.User.ID)
	user := &domain.User{
		ID:        userID,
		FirstName: authResp.User.FirstName,
		LastName:  authResp.User.LastName,
		Email:     authResp.User.Email,
		IsAdmin:   authResp.User.IsAdmin,
	}

	return user, authResp.Token
}

// AdminToken registers the configured admin and returns its token.
func AdminToken(t *testing.T, ts *TestServer) string {
	t.Helper()
	_, token := NewUserBuilder().AsAdmin().BuildAndAuthenticate(t, ts)
	return token
}

// EventBuilder creates test events with a builder pattern
type EventBuilder struct {
	title     string
	start     string
	end       string
	featured  bool
	createdAt time.Time
}

func NewEventBuilder() *EventBuilder {
	return &EventBuilder{
		title:     fmt.Sprintf("Event %s", uuid.New().String()[:8]),
		start:     "2026-03-01",
		end:       "2026-03-02",
		createdAt: time.Now().UTC(),
	}
}

func (b *EventBuilder) WithTitle(title string) *EventBuilder {
	b.title = title
	return b
}

func (b *EventBuilder) WithDates(start, end string) *EventBuilder {
	b.start = start
	b.end = end
	return b
}

func (b *EventBuilder) Featured() *EventBuilder {
	b.featured = true
	return b
}

func (b *EventBuilder) CreatedAt(at time.Time) *EventBuilder {
	b.createdAt = at.UTC()
	return b
}

// Input returns the event as a create request body would carry it.
func (b *EventBuilder) Input() *domain.Event {
	return &domain.Event{
		Title:       b.title,
		Description: "Description of " + b.title,
		Scope: datatypes.NewJSONType(domain.Scope{
			StartDate: domain.MustParseScopeDate(b.start),
			EndDate:   domain.MustParseScopeDate(b.end),
		}),
		Time:     "10:00 AM",
		Location: "Community Hall",
		Category: "Outreach",
		Featured: b.featured,
	}
}

// Build inserts the event directly, bypassing validation.
func (b *EventBuilder) Build(t *testing.T, db *gorm.DB) *domain.Event {
	t.Helper()

	event := b.Input()
	event.ID = uuid.New()
	event.CreatedAt = b.createdAt
	event.UpdatedAt = b.createdAt

	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to create event: %v", err)
	}
	return event
}

// ProjectBuilder creates test projects with a builder pattern
type ProjectBuilder struct {
	title     string
	leader    string
	status    domain.ProjectStatus
	createdAt time.Time
}

func NewProjectBuilder() *ProjectBuilder {
	return &ProjectBuilder{
		title:     fmt.Sprintf("Project %s", uuid.New().String()[:8]),
		leader:    "Jane Doe",
		status:    domain.ProjectStatusActive,
		createdAt: time.Now().UTC(),
	}
}

func (b *ProjectBuilder) WithTitle(title string) *ProjectBuilder {
	b.title = title
	return b
}

func (b *ProjectBuilder) WithStatus(status domain.ProjectStatus) *ProjectBuilder {
	b.status = status
	return b
}

func (b *ProjectBuilder) CreatedAt(at time.Time) *ProjectBuilder {
	b.createdAt = at.UTC()
	return b
}

func (b *ProjectBuilder) Input() *domain.Project {
	return &domain.Project{
		Title:       b.title,
		Description: "Description of " + b.title,
		Scope: datatypes.NewJSONType(domain.Scope{
			StartDate: domain.MustParseScopeDate("2026-01-01"),
			EndDate:   domain.MustParseScopeDate("2026-12-31"),
		}),
		Leader: b.leader,
		Status: b.status,
	}
}

func (b *ProjectBuilder) Build(t *testing.T, db *gorm.DB) *domain.Project {
	t.Helper()

	project := b.Input()
	project.ID = uuid.New()
	project.CreatedAt = b.createdAt
	project.UpdatedAt = b.createdAt

	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	return project
}

// ContactBuilder creates test contact submissions
type ContactBuilder struct {
	subject string
	date    time.Time
}

func NewContactBuilder() *ContactBuilder {
	return &ContactBuilder{
		subject: "Volunteering",
		date:    time.Now().UTC(),
	}
}

func (b *ContactBuilder) WithSubject(subject string) *ContactBuilder {
	b.subject = subject
	return b
}

func (b *ContactBuilder) At(date time.Time) *ContactBuilder {
	b.date = date.UTC()
	return b
}

func (b *ContactBuilder) Build(t *testing.T, db *gorm.DB) *domain.Contact {
	t.Helper()

	contact := &domain.Contact{
		ID:      uuid.New(),
		Name:    "Sam Visitor",
		Email:   "sam@example.org",
		Subject: b.subject,
		Message: "I would like to help.",
		Date:    b.date,
	}
	if err := db.Create(contact).Error; err != nil {
		t.Fatalf("failed to create contact: %v", err)
	}
	return contact
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// Do sends an authenticated JSON request and fails the test on transport errors.
func Do(t *testing.T, method, url string, body interface{}, token string) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(CreateAuthenticatedRequest(t, method, url, body, token))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}
