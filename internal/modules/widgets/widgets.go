// Package widgets renders embeddable market-data widgets.
// Rendering is a capability interface; callers pass every input, including
// the colour theme, explicitly.
package widgets

import (
	"strconv"
	"strings"

	"github.com/aristath/tradejournal/internal/domain"
)

// Heatmap markets
const (
	MarketCrypto = "crypto"
	MarketStocks = "stocks"
)

// DefaultSymbols are shown when a symbol overview request names none
var DefaultSymbols = []string{"FX:EURUSD", "FX:GBPUSD", "OANDA:XAUUSD"}

const maxSymbols = 20

// Dimensions of a widget. Values are CSS lengths ("100%") or pixel counts ("400").
type Dimensions struct {
	Width  string
	Height string
}

// SymbolOverviewRequest describes a symbol overview widget
type SymbolOverviewRequest struct {
	Symbols    []string
	Theme      domain.Theme
	Locale     string
	Dimensions Dimensions
}

// HeatmapRequest describes a market heatmap widget
type HeatmapRequest struct {
	Market     string
	Theme      domain.Theme
	Locale     string
	Dimensions Dimensions
}

// Widget is a rendered embed: the script to load and its JSON configuration
type Widget struct {
	Provider  string                 `json:"provider"`
	Kind      string                 `json:"kind"`
	ScriptURL string                 `json:"script_url"`
	Config    map[string]interface{} `json:"config"`
}

// Renderer builds widget embeds
type Renderer interface {
	SymbolOverview(req SymbolOverviewRequest) (Widget, error)
	Heatmap(req HeatmapRequest) (Widget, error)
}

// ResolveTheme picks the widget theme: an explicit param wins, then the
// user's stored preference, then light. An unknown param is rejected.
func ResolveTheme(param string, prefs domain.PreferenceReader, userID int64) (domain.Theme, error) {
	if strings.TrimSpace(param) != "" {
		theme, ok := domain.ParseTheme(param)
		if !ok {
			return "", domain.NewValidationError("theme", "must be one of: light, dark")
		}
		return theme, nil
	}
	if prefs == nil {
		return domain.ThemeLight, nil
	}
	theme, err := prefs.Theme(userID)
	if err != nil {
		return "", err
	}
	if theme == "" {
		return domain.ThemeLight, nil
	}
	return theme, nil
}

// ParseSymbols splits a comma separated symbol list, dropping blanks
func ParseSymbols(s string) ([]string, error) {
	var symbols []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if strings.ContainsAny(part, " |\"'<>") {
			return nil, domain.NewValidationError("symbols", "invalid symbol %q", part)
		}
		symbols = append(symbols, part)
	}
	if len(symbols) > maxSymbols {
		return nil, domain.NewValidationError("symbols", "at most %d symbols", maxSymbols)
	}
	return symbols, nil
}

// ParseDimension accepts a pixel count or a percentage, returning def when empty
func ParseDimension(field, s, def string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		n, err := strconv.Atoi(pct)
		if err != nil || n <= 0 || n > 100 {
			return "", domain.NewValidationError(field, "percentage must be between 1%% and 100%%")
		}
		return s, nil
	}
	n, err := strconv.Atoi(strings.TrimSuffix(s, "px"))
	if err != nil || n <= 0 || n > 4000 {
		return "", domain.NewValidationError(field, "must be a pixel count or percentage")
	}
	return strconv.Itoa(n), nil
}
