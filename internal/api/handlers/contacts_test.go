package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dom/nonprofit-site/internal/api/httpx"
	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/dom/nonprofit-site/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu       sync.Mutex
	contacts []*domain.Contact
	err      error
}

func (n *recordingNotifier) NotifyContact(_ context.Context, c *domain.Contact) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.contacts = append(n.contacts, c)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.contacts)
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func validContact() map[string]string {
	return map[string]string{
		"name":    "Sam Visitor",
		"email":   "sam@example.org",
		"subject": "Volunteering",
		"message": "How can I help on weekends?",
	}
}

func TestContactHandler_Submit(t *testing.T) {
	notifier := &recordingNotifier{}
	ts := testutil.NewTestServer(t, testutil.WithNotifier(notifier))

	resp := testutil.Do(t, http.MethodPost, ts.APIURL("/contacts"), validContact(), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created domain.Contact
	testutil.AssertJSONResponse(t, resp, &created)
	assert.Equal(t, "Sam Visitor", created.Name)
	assert.Empty(t, created.Phone)
	assert.WithinDuration(t, time.Now(), created.Date, time.Minute)
	assert.Equal(t, 1, notifier.count())
}

func TestContactHandler_SubmitSurvivesNotifyFailure(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("broker down")}
	ts := testutil.NewTestServer(t, testutil.WithNotifier(notifier))

	resp := testutil.Do(t, http.MethodPost, ts.APIURL("/contacts"), validContact(), "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	contacts, err := ts.Services.Contacts.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
}

func TestContactHandler_SubmitValidation(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name  string
		field string
		value string
	}{
		{"missing name", "name", ""},
		{"invalid email", "email", "sam-at-example"},
		{"missing subject", "subject", ""},
		{"missing message", "message", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validContact()
			body[tt.field] = tt.value
			resp := testutil.Do(t, http.MethodPost, ts.APIURL("/contacts"), body, "")
			errResp := testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, httpx.CodeValidation)
			testutil.AssertFieldError(t, errResp, tt.field)
		})
	}
}

func TestContactHandler_AdminReads(t *testing.T) {
	ts := testutil.NewTestServer(t)
	adminToken := testutil.AdminToken(t, ts)
	_, userToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	older := testutil.NewContactBuilder().WithSubject("Older").At(mustTime(t, "2026-01-01T00:00:00Z")).Build(t, ts.DB.DB)
	newer := testutil.NewContactBuilder().WithSubject("Newer").At(mustTime(t, "2026-03-01T00:00:00Z")).Build(t, ts.DB.DB)

	t.Run("anonymous list is rejected", func(t *testing.T) {
		resp := testutil.Do(t, http.MethodGet, ts.APIURL("/contacts"), nil, "")
		testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, httpx.CodeAuthentication)
	})

	t.Run("regular user list is forbidden", func(t *testing.T) {
		resp := testutil.Do(t, http.MethodGet, ts.APIURL("/contacts"), nil, userToken)
		testutil.AssertErrorResponse(t, resp, http.StatusForbidden, httpx.CodeForbidden)
	})

	t.Run("admin list newest first", func(t *testing.T) {
		resp := testutil.Do(t, http.MethodGet, ts.APIURL("/contacts"), nil, adminToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var contacts []domain.Contact
		testutil.AssertJSONResponse(t, resp, &contacts)
		require.Len(t, contacts, 2)
		assert.Equal(t, newer.ID, contacts[0].ID)
		assert.Equal(t, older.ID, contacts[1].ID)
	})

	t.Run("admin get by id", func(t *testing.T) {
		resp := testutil.Do(t, http.MethodGet, ts.APIURL("/contacts/"+older.ID.String()), nil, adminToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var contact domain.Contact
		testutil.AssertJSONResponse(t, resp, &contact)
		assert.Equal(t, "Older", contact.Subject)
	})

	t.Run("admin delete", func(t *testing.T) {
		resp := testutil.Do(t, http.MethodDelete, ts.APIURL("/contacts/"+older.ID.String()), nil, adminToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		again := testutil.Do(t, http.MethodDelete, ts.APIURL("/contacts/"+older.ID.String()), nil, adminToken)
		testutil.AssertErrorResponse(t, again, http.StatusNotFound, httpx.CodeNotFound)
	})
}
