package settings

import (
	"testing"

	"github.com/aristath/tradejournal/internal/domain"
	testutil "github.com/aristath/tradejournal/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_ThemeDefaultsToLight(t *testing.T) {
	db := testutil.NewMemoryDB(t)
	alice := testutil.InsertUser(t, db, "alice")
	svc := NewService(NewRepository(db, zerolog.Nop()), zerolog.Nop())

	theme, err := svc.Theme(alice)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, theme)

	all, err := svc.GetAll(alice)
	require.NoError(t, err)
	assert.Equal(t, "light", all[KeyTheme])
}

func TestService_SetThemeIsPerUser(t *testing.T) {
	db := testutil.NewMemoryDB(t)
	alice := testutil.InsertUser(t, db, "alice")
	bob := testutil.InsertUser(t, db, "bob")
	svc := NewService(NewRepository(db, zerolog.Nop()), zerolog.Nop())

	value, err := svc.Set(alice, KeyTheme, " Dark ")
	require.NoError(t, err)
	assert.Equal(t, "dark", value)

	theme, err := svc.Theme(alice)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, theme)

	theme, err = svc.Theme(bob)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, theme)

	// Overwrite
	_, err = svc.Set(alice, KeyTheme, "light")
	require.NoError(t, err)
	theme, err = svc.Theme(alice)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, theme)
}

func TestService_SetRejectsInvalid(t *testing.T) {
	db := testutil.NewMemoryDB(t)
	alice := testutil.InsertUser(t, db, "alice")
	svc := NewService(NewRepository(db, zerolog.Nop()), zerolog.Nop())

	tests := []struct {
		name  string
		key   string
		value interface{}
	}{
		{"unknown theme", KeyTheme, "solarized"},
		{"non-string value", KeyTheme, 1.0},
		{"bad key", "Theme!", "dark"},
		{"empty key", "", "dark"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Set(alice, tt.key, tt.value)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
		})
	}
}

func TestService_FreeFormKeys(t *testing.T) {
	db := testutil.NewMemoryDB(t)
	alice := testutil.InsertUser(t, db, "alice")
	svc := NewService(NewRepository(db, zerolog.Nop()), zerolog.Nop())

	_, err := svc.Set(alice, "default_account", "3")
	require.NoError(t, err)

	all, err := svc.GetAll(alice)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"theme": "light", "default_account": "3"}, all)
}
