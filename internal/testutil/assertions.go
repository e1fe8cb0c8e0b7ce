package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/dom/nonprofit-site/internal/api/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v and verifies the content type
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	assert.Contains(t, resp.Header.Get("Content-Type"), httpx.ContentTypeJSON)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertErrorResponse verifies the status and the error category of a JSON error
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedCode string) *httpx.ErrorResponse {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	var errResp httpx.ErrorResponse
	AssertJSONResponse(t, resp, &errResp)
	assert.Equal(t, expectedCode, errResp.Error, "error category mismatch")
	assert.NotEmpty(t, errResp.Message)
	return &errResp
}

// AssertFieldError verifies a validation error names field
func AssertFieldError(t *testing.T, errResp *httpx.ErrorResponse, field string) {
	t.Helper()

	for _, f := range errResp.Fields {
		if f.Field == field {
			return
		}
	}
	t.Errorf("expected a validation error for %q, got %+v", field, errResp.Fields)
}
