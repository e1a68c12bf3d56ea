package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeErrorJSONEnvelope(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.product.Commit = "abc123"

	req := httptest.NewRequest("GET", "/api/thing.json", nil)
	w := httptest.NewRecorder()
	srv.serveError(w, req, http.StatusInternalServerError, "something broke")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var env errorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, http.StatusInternalServerError, env.Code)
	assert.Equal(t, "something broke", env.Message)
	assert.Equal(t, "abc123", env.Commit)
}

func TestServeErrorThemedPage(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest("GET", "/somewhere", nil)
	w := httptest.NewRecorder()
	srv.serveError(w, req, http.StatusNotFound, "nothing here")

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "text/html", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "404")
	assert.Contains(t, body, "nothing here")
	// Theme colors applied, no leftover template tokens.
	assert.Contains(t, body, "#112233")
	assert.NotContains(t, body, "{{")
}
