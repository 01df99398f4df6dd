package widgets

import (
	"strings"

	"github.com/aristath/tradejournal/internal/domain"
)

const tradingViewEmbedBase = "https://s3.tradingview.com/external-embedding/"

// TradingView renders TradingView embed widgets
type TradingView struct{}

// NewTradingView creates a TradingView renderer
func NewTradingView() *TradingView {
	return &TradingView{}
}

// SymbolOverview builds a symbol overview embed for the requested symbols
func (tv *TradingView) SymbolOverview(req SymbolOverviewRequest) (Widget, error) {
	symbols := req.Symbols
	if len(symbols) == 0 {
		symbols = DefaultSymbols
	}

	pairs := make([][]string, 0, len(symbols))
	for _, s := range symbols {
		pairs = append(pairs, []string{displayName(s), s + "|1D"})
	}

	dims := withDefaults(req.Dimensions, "100%", "400")
	return Widget{
		Provider:  "tradingview",
		Kind:      "symbol-overview",
		ScriptURL: tradingViewEmbedBase + "embed-widget-symbol-overview.js",
		Config: map[string]interface{}{
			"symbols":          pairs,
			"chartOnly":        false,
			"locale":           locale(req.Locale),
			"colorTheme":       themeName(req.Theme),
			"autosize":         false,
			"showVolume":       false,
			"showMA":           false,
			"hideDateRanges":   false,
			"hideMarketStatus": false,
			"hideSymbolLogo":   false,
			"scalePosition":    "right",
			"scaleMode":        "Normal",
			"chartType":        "area",
			"dateRanges":       []string{"1d|1", "1m|30", "3m|60", "12m|1D", "60m|1W", "all|1M"},
			"width":            dims.Width,
			"height":           dims.Height,
		},
	}, nil
}

// Heatmap builds a crypto or S&P 500 heatmap embed
func (tv *TradingView) Heatmap(req HeatmapRequest) (Widget, error) {
	dims := withDefaults(req.Dimensions, "100%", "100%")
	config := map[string]interface{}{
		"locale":           locale(req.Locale),
		"symbolUrl":        "",
		"colorTheme":       themeName(req.Theme),
		"hasTopBar":        false,
		"isDataSetEnabled": false,
		"isZoomEnabled":    true,
		"hasSymbolTooltip": true,
		"isMonoSize":       false,
		"width":            dims.Width,
		"height":           dims.Height,
	}

	var script string
	switch strings.ToLower(strings.TrimSpace(req.Market)) {
	case MarketCrypto, "":
		script = "embed-widget-crypto-coins-heatmap.js"
		config["dataSource"] = "Crypto"
		config["blockSize"] = "market_cap_calc"
		config["blockColor"] = "24h_close_change|5"
	case MarketStocks:
		script = "embed-widget-stock-heatmap.js"
		config["exchanges"] = []string{}
		config["dataSource"] = "SPX500"
		config["grouping"] = "sector"
		config["blockSize"] = "market_cap_basic"
		config["blockColor"] = "change"
	default:
		return Widget{}, domain.NewValidationError("market", "must be one of: crypto, stocks")
	}

	return Widget{
		Provider:  "tradingview",
		Kind:      "heatmap",
		ScriptURL: tradingViewEmbedBase + script,
		Config:    config,
	}, nil
}

func displayName(symbol string) string {
	if _, name, ok := strings.Cut(symbol, ":"); ok {
		return name
	}
	return symbol
}

func locale(l string) string {
	if l == "" {
		return "en"
	}
	return l
}

func themeName(t domain.Theme) string {
	if t == domain.ThemeDark {
		return "dark"
	}
	return "light"
}

func withDefaults(d Dimensions, width, height string) Dimensions {
	if d.Width == "" {
		d.Width = width
	}
	if d.Height == "" {
		d.Height = height
	}
	return d
}
