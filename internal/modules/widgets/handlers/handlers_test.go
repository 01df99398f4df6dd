package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aristath/tradejournal/internal/domain"
	"github.com/aristath/tradejournal/internal/modules/settings"
	"github.com/aristath/tradejournal/internal/modules/widgets"
	testutil "github.com/aristath/tradejournal/internal/testing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWidgetEndpoints(t *testing.T) {
	db := testutil.NewMemoryDB(t)
	userID := testutil.InsertUser(t, db, "alice")
	prefs := settings.NewService(settings.NewRepository(db, zerolog.Nop()), zerolog.Nop())

	router := chi.NewRouter()
	NewHandler(widgets.NewTradingView(), prefs, &testutil.StaticAuth{Session: domain.Session{UserID: userID}}, zerolog.Nop()).RegisterRoutes(router)

	get := func(path string) (*httptest.ResponseRecorder, widgets.Widget) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		var w widgets.Widget
		if rec.Code == http.StatusOK {
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &w))
		}
		return rec, w
	}

	rec, w := get("/widgets/heatmap")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "light", w.Config["colorTheme"])

	// Stored preference applies when no param is given
	_, err := prefs.Set(userID, settings.KeyTheme, "dark")
	require.NoError(t, err)
	_, w = get("/widgets/heatmap?market=stocks")
	assert.Equal(t, "dark", w.Config["colorTheme"])
	assert.Equal(t, "SPX500", w.Config["dataSource"])

	// Param overrides the preference
	_, w = get("/widgets/symbol-overview?symbols=FX:EURUSD&theme=light&height=300")
	assert.Equal(t, "light", w.Config["colorTheme"])
	assert.Equal(t, "300", w.Config["height"])

	for _, path := range []string{
		"/widgets/heatmap?market=bonds",
		"/widgets/heatmap?theme=purple",
		"/widgets/heatmap?locale=english",
		"/widgets/symbol-overview?width=-5",
		"/widgets/symbol-overview?symbols=A%3CB",
	} {
		rec, _ := get(path)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}
