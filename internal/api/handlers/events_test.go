package handlers_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dom/nonprofit-site/internal/api/httpx"
	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/dom/nonprofit-site/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventHandler_CreateAndGet(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := testutil.AdminToken(t, ts)

	input := testutil.NewEventBuilder().
		WithTitle("Food Drive").
		WithDates("2026-05-01", "2026-05-03").
		Featured().
		Input()

	resp := testutil.Do(t, http.MethodPost, ts.APIURL("/events"), input, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created domain.Event
	testutil.AssertJSONResponse(t, resp, &created)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	getResp := testutil.Do(t, http.MethodGet, ts.APIURL("/events/"+created.ID.String()), nil, "")
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var fetched domain.Event
	testutil.AssertJSONResponse(t, getResp, &fetched)

	// Equal to the input modulo server-assigned fields.
	assert.Equal(t, input.Title, fetched.Title)
	assert.Equal(t, input.Description, fetched.Description)
	assert.Equal(t, input.Time, fetched.Time)
	assert.Equal(t, input.Location, fetched.Location)
	assert.Equal(t, input.Category, fetched.Category)
	assert.Equal(t, input.Featured, fetched.Featured)
	assert.Equal(t, "2026-05-01", fetched.Scope.Data().StartDate.String())
	assert.Equal(t, "2026-05-03", fetched.Scope.Data().EndDate.String())
	assert.Equal(t, created.ID, fetched.ID)
}

func TestEventHandler_Create_Validation(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := testutil.AdminToken(t, ts)

	tests := []struct {
		name          string
		body          map[string]interface{}
		expectedField string
	}{
		{
			name: "missing title",
			body: map[string]interface{}{
				"description": "d",
				"scope":       map[string]string{"startDate": "2026-01-01", "endDate": "2026-01-02"},
			},
			expectedField: "title",
		},
		{
			name: "missing scope",
			body: map[string]interface{}{
				"title":       "t",
				"description": "d",
			},
			expectedField: "scope.startDate",
		},
		{
			name: "unparseable date",
			body: map[string]interface{}{
				"title":       "t",
				"description": "d",
				"scope":       map[string]string{"startDate": "next tuesday", "endDate": "2026-01-02"},
			},
			expectedField: "scope.startDate",
		},
		{
			name: "unscheduled date is not accepted on write",
			body: map[string]interface{}{
				"title":       "t",
				"description": "d",
				"scope": map[string]interface{}{
					"startDate": map[string]string{"unscheduled": "Soon to be published"},
					"endDate":   "2026-01-02",
				},
			},
			expectedField: "scope.startDate",
		},
		{
			name: "end before start",
			body: map[string]interface{}{
				"title":       "t",
				"description": "d",
				"scope":       map[string]string{"startDate": "2026-02-01", "endDate": "2026-01-01"},
			},
			expectedField: "scope.endDate",
		},
		{
			name: "image is not a data uri or url",
			body: map[string]interface{}{
				"title":       "t",
				"description": "d",
				"scope":       map[string]string{"startDate": "2026-01-01", "endDate": "2026-01-02"},
				"image":       "C:\\photos\\event.png",
			},
			expectedField: "image",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.Do(t, http.MethodPost, ts.APIURL("/events"), tt.body, token)
			errResp := testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, httpx.CodeValidation)
			testutil.AssertFieldError(t, errResp, tt.expectedField)
		})
	}
}

func TestEventHandler_Create_ImageSize(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := testutil.AdminToken(t, ts)
	maxImage := ts.Config.MaxImageBytes

	withImage := func(size int) *domain.Event {
		input := testutil.NewEventBuilder().Input()
		prefix := "data:image/png;base64,"
		input.Image = prefix + strings.Repeat("A", size-len(prefix))
		return input
	}

	t.Run("image over the cap is a validation error", func(t *testing.T) {
		resp := testutil.Do(t, http.MethodPost, ts.APIURL("/events"), withImage(maxImage+1024), token)
		errResp := testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, httpx.CodeValidation)
		testutil.AssertFieldError(t, errResp, "image")
	})

	t.Run("body over the request limit is too large", func(t *testing.T) {
		resp := testutil.Do(t, http.MethodPost, ts.APIURL("/events"), withImage(3*maxImage), token)
		errResp := testutil.AssertErrorResponse(t, resp, http.StatusRequestEntityTooLarge, httpx.CodeTooLarge)
		assert.Contains(t, errResp.Message, "Request body exceeds")
	})

	t.Run("update body over the request limit is too large", func(t *testing.T) {
		event := testutil.NewEventBuilder().Build(t, ts.DB.DB)
		resp := testutil.Do(t, http.MethodPut, ts.APIURL("/events/"+event.ID.String()), withImage(3*maxImage), token)
		testutil.AssertErrorResponse(t, resp, http.StatusRequestEntityTooLarge, httpx.CodeTooLarge)
	})
}

func TestEventHandler_RequiresAdmin(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, userToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	event := testutil.NewEventBuilder().Build(t, ts.DB.DB)

	tests := []struct {
		name           string
		method         string
		path           string
		token          string
		expectedStatus int
		expectedCode   string
	}{
		{"create without token", http.MethodPost, "/events", "", http.StatusUnauthorized, httpx.CodeAuthentication},
		{"create as regular user", http.MethodPost, "/events", userToken, http.StatusForbidden, httpx.CodeForbidden},
		{"update as regular user", http.MethodPut, "/events/" + event.ID.String(), userToken, http.StatusForbidden, httpx.CodeForbidden},
		{"delete as regular user", http.MethodDelete, "/events/" + event.ID.String(), userToken, http.StatusForbidden, httpx.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body interface{}
			if tt.method != http.MethodDelete {
				body = testutil.NewEventBuilder().Input()
			}
			resp := testutil.Do(t, tt.method, ts.APIURL(tt.path), body, tt.token)
			testutil.AssertErrorResponse(t, resp, tt.expectedStatus, tt.expectedCode)
		})
	}
}

func TestEventHandler_Update(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := testutil.AdminToken(t, ts)
	event := testutil.NewEventBuilder().
		CreatedAt(time.Now().Add(-time.Hour)).
		Build(t, ts.DB.DB)

	input := testutil.NewEventBuilder().WithTitle("Renamed").WithDates("2026-07-01", "2026-07-01").Input()
	resp := testutil.Do(t, http.MethodPut, ts.APIURL("/events/"+event.ID.String()), input, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated domain.Event
	testutil.AssertJSONResponse(t, resp, &updated)
	assert.Equal(t, event.ID, updated.ID)
	assert.Equal(t, "Renamed", updated.Title)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
	assert.WithinDuration(t, event.CreatedAt, updated.CreatedAt, time.Millisecond)

	t.Run("missing id", func(t *testing.T) {
		resp := testutil.Do(t, http.MethodPut, ts.APIURL("/events/"+uuid.NewString()), input, token)
		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, httpx.CodeNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		resp := testutil.Do(t, http.MethodPut, ts.APIURL("/events/not-a-uuid"), input, token)
		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, httpx.CodeNotFound)
	})
}

func TestEventHandler_Delete(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := testutil.AdminToken(t, ts)
	event := testutil.NewEventBuilder().Build(t, ts.DB.DB)

	resp := testutil.Do(t, http.MethodDelete, ts.APIURL("/events/"+event.ID.String()), nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var msg httpx.MessageResponse
	testutil.AssertJSONResponse(t, resp, &msg)
	assert.NotEmpty(t, msg.Message)

	again := testutil.Do(t, http.MethodDelete, ts.APIURL("/events/"+event.ID.String()), nil, token)
	testutil.AssertErrorResponse(t, again, http.StatusNotFound, httpx.CodeNotFound)

	get := testutil.Do(t, http.MethodGet, ts.APIURL("/events/"+event.ID.String()), nil, "")
	testutil.AssertErrorResponse(t, get, http.StatusNotFound, httpx.CodeNotFound)
}

func TestEventHandler_ListCountsAfterCreatesAndDeletes(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := testutil.AdminToken(t, ts)

	const creates, deletes = 5, 2
	ids := make([]string, 0, creates)
	for i := 0; i < creates; i++ {
		resp := testutil.Do(t, http.MethodPost, ts.APIURL("/events"), testutil.NewEventBuilder().Input(), token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var created domain.Event
		testutil.AssertJSONResponse(t, resp, &created)
		ids = append(ids, created.ID.String())
	}
	for _, id := range ids[:deletes] {
		resp := testutil.Do(t, http.MethodDelete, ts.APIURL("/events/"+id), nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp := testutil.Do(t, http.MethodGet, ts.APIURL("/events"), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var events []domain.Event
	testutil.AssertJSONResponse(t, resp, &events)
	assert.Len(t, events, creates-deletes)
}

func TestEventHandler_ListEmptyIsArray(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := testutil.Do(t, http.MethodGet, ts.APIURL("/events"), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var events []domain.Event
	testutil.AssertJSONResponse(t, resp, &events)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}
