package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsMapToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Configuration("missing %s", "key").HTTPStatus)
	assert.Equal(t, http.StatusBadRequest, Validation("id required").HTTPStatus)
	assert.Equal(t, http.StatusBadRequest, UnknownEntity("dragon").HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, Upstream("openai", 502, "bad gateway").HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, Transport("ollama", fmt.Errorf("dial tcp")).HTTPStatus)
	assert.Equal(t, http.StatusServiceUnavailable, NotInitialized().HTTPStatus)
	assert.Equal(t, http.StatusNotFound, ErrProjectNotFound.HTTPStatus)
}

func TestKindSurvivesWrapping(t *testing.T) {
	base := Configuration("no current project")
	wrapped := fmt.Errorf("read: %w", base)

	assert.True(t, IsConfiguration(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.True(t, IsAppError(wrapped))
	assert.Equal(t, CodeConfiguration, AsAppError(wrapped).Code)
}

func TestAsAppErrorFallsBackToUnknown(t *testing.T) {
	appErr := AsAppError(fmt.Errorf("boom"))
	assert.Equal(t, CodeUnknown, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
}

func TestUpstreamKeepsBodyAsDetail(t *testing.T) {
	err := Upstream("claude", 401, `{"error":"invalid x-api-key"}`)
	assert.True(t, IsUpstream(err))
	assert.Contains(t, err.Detail, "invalid x-api-key")
	assert.Contains(t, err.Error(), "HTTP 401")
}
