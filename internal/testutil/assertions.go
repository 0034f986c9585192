package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v and verifies success
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertErrorEnvelope verifies the uniform error body
func AssertErrorEnvelope(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	var envelope struct {
		StatusCode int    `json:"statusCode"`
		Message    string `json:"message"`
		Timestamp  string `json:"timestamp"`
		Path       string `json:"path"`
	}
	AssertJSONResponse(t, resp, &envelope)

	assert.Equal(t, expectedStatus, envelope.StatusCode, "status code mismatch in envelope")
	assert.Contains(t, envelope.Message, expectedMessage, "error message mismatch")
	assert.NotEmpty(t, envelope.Timestamp)
	assert.NotEmpty(t, envelope.Path)
}
