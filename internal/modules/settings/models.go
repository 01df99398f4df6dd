package settings

import (
	"github.com/aristath/tradejournal/internal/domain"
)

// Known setting keys
const (
	KeyTheme = "theme"
)

// SettingDefaults holds the value returned for keys a user has never set
var SettingDefaults = map[string]string{
	KeyTheme: string(domain.ThemeLight),
}

// SettingUpdate is the body of PUT /settings/{key}
type SettingUpdate struct {
	Value interface{} `json:"value"`
}

// validators normalise and check values of known keys.
// Keys without a validator accept any string.
var validators = map[string]func(string) (string, error){
	KeyTheme: func(v string) (string, error) {
		theme, ok := domain.ParseTheme(v)
		if !ok {
			return "", domain.NewValidationError(KeyTheme, "must be one of: light, dark")
		}
		return string(theme), nil
	},
}
