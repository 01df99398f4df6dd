package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aristath/tradejournal/internal/domain"
	"github.com/aristath/tradejournal/internal/modules/settings"
	testutil "github.com/aristath/tradejournal/internal/testing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSettingsEndpoints(t *testing.T) {
	db := testutil.NewMemoryDB(t)
	userID := testutil.InsertUser(t, db, "alice")
	svc := settings.NewService(settings.NewRepository(db, zerolog.Nop()), zerolog.Nop())

	router := chi.NewRouter()
	NewHandler(svc, &testutil.StaticAuth{Session: domain.Session{UserID: userID}}, zerolog.Nop()).RegisterRoutes(router)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
		return rec
	}

	rec := do(http.MethodGet, "/settings/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"theme":"light"}`, rec.Body.String())

	rec = do(http.MethodPut, "/settings/theme", `{"value":"dark"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"theme":"dark"}`, rec.Body.String())

	rec = do(http.MethodPut, "/settings/theme", `{"value":"neon"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodPut, "/settings/theme", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodGet, "/settings/", "")
	assert.JSONEq(t, `{"theme":"dark"}`, rec.Body.String())
}

func TestSettingsEndpoints_Unauthenticated(t *testing.T) {
	db := testutil.NewMemoryDB(t)
	svc := settings.NewService(settings.NewRepository(db, zerolog.Nop()), zerolog.Nop())

	router := chi.NewRouter()
	NewHandler(svc, &testutil.StaticAuth{}, zerolog.Nop()).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/settings/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
