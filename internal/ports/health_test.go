package ports_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Amund211/profilelookup/internal/ports"
	"github.com/stretchr/testify/require"
)

func TestMakeHealthHandler(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	ports.MakeHealthHandler().ServeHTTP(w, httptest.NewRequest("GET", "/up", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	require.Equal(t, "application/json", w.Result().Header.Get("Content-Type"))
}

func TestMakeNotFoundHandler(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	ports.MakeNotFoundHandler().ServeHTTP(w, httptest.NewRequest("GET", "/api/unknown", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `{"error":{"message":"Not found"}}`, w.Body.String())
}
