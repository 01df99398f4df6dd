package dailybook

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/vmihailenco/msgpack/v5"
)

// ExportFormat selects the daily book export encoding
type ExportFormat string

const (
	ExportCSV     ExportFormat = "csv"
	ExportMsgpack ExportFormat = "msgpack"
)

// ContentType returns the HTTP media type of the format
func (f ExportFormat) ContentType() string {
	if f == ExportMsgpack {
		return "application/x-msgpack"
	}
	return "text/csv"
}

// ParseExportFormat validates a format name. Empty means CSV.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case "", ExportCSV:
		return ExportCSV, nil
	case ExportMsgpack:
		return ExportMsgpack, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ExportRow is the flat record written by exports
type ExportRow struct {
	ID              int64   `csv:"id" msgpack:"id"`
	AccountID       int64   `csv:"account_id" msgpack:"account_id"`
	Date            string  `csv:"date" msgpack:"date"`
	StartingBalance float64 `csv:"starting_balance" msgpack:"starting_balance"`
	EndingBalance   float64 `csv:"ending_balance" msgpack:"ending_balance"`
	Withdraw        float64 `csv:"withdraw" msgpack:"withdraw"`
	ProfitLoss      float64 `csv:"profit_loss" msgpack:"profit_loss"`
	Result          string  `csv:"result" msgpack:"result"`
	Sentiment       string  `csv:"sentiment" msgpack:"sentiment"`
	Summary         string  `csv:"summary" msgpack:"summary"`
	Remarks         string  `csv:"remarks" msgpack:"remarks"`
}

// ExportRows flattens entries for export
func ExportRows(entries []Entry) []*ExportRow {
	rows := make([]*ExportRow, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		rows = append(rows, &ExportRow{
			ID:              e.ID,
			AccountID:       e.AccountID,
			Date:            e.Date.String(),
			StartingBalance: e.StartingBalance,
			EndingBalance:   e.EndingBalance,
			Withdraw:        e.Withdraw,
			ProfitLoss:      e.ComputeProfitLoss(),
			Result:          string(e.Result),
			Sentiment:       deref(e.Sentiment),
			Summary:         deref(e.Summary),
			Remarks:         deref(e.Remarks),
		})
	}
	return rows
}

// Export writes entries to w in the given format
func Export(w io.Writer, format ExportFormat, entries []Entry) error {
	rows := ExportRows(entries)

	switch format {
	case ExportMsgpack:
		data, err := msgpack.Marshal(rows)
		if err != nil {
			return fmt.Errorf("failed to encode msgpack export: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write msgpack export: %w", err)
		}
		return nil
	default:
		if err := gocsv.Marshal(rows, w); err != nil {
			return fmt.Errorf("failed to encode csv export: %w", err)
		}
		return nil
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
