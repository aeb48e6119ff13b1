package fakeapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carmanager/internal/car"
)

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestServer_CRUD(t *testing.T) {
	s := New(car.Record{ID: "1", License: "ABC-123", Brand: "Toyota", Series: "Corolla"})

	w := do(t, s, http.MethodGet, "/car", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"1"`)

	w = do(t, s, http.MethodPost, "/car", `{"license":"X-1","brand":"BMW","series":"i3"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	cars := s.Cars()
	require.Len(t, cars, 2)
	assert.NotEmpty(t, cars[1].ID)

	w = do(t, s, http.MethodPatch, "/car/1", `{"license":"ABC-999","brand":"Toyota","series":"Corolla"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ABC-999", s.Cars()[0].License)

	w = do(t, s, http.MethodDelete, "/car/1", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Len(t, s.Cars(), 1)
	assert.Equal(t, "BMW", s.Cars()[0].Brand)

	w = do(t, s, http.MethodDelete, "/car/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, []string{
		"GET /car", "POST /car", "PATCH /car/1", "DELETE /car/1", "DELETE /car/1",
	}, s.CallStrings())
}

func TestServer_EmptyListIsArray(t *testing.T) {
	s := New()
	w := do(t, s, http.MethodGet, "/car", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestServer_FailNextIsOneShot(t *testing.T) {
	s := New()
	s.FailNext(http.MethodGet, http.StatusServiceUnavailable)

	assert.Equal(t, http.StatusServiceUnavailable, do(t, s, http.MethodGet, "/car", "").Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/car", "").Code)
	assert.Len(t, s.Calls(), 2)

	s.ResetCalls()
	assert.Empty(t, s.Calls())
}
