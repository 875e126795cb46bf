package forex

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// WriteSnapshot persists pair quotes as a "ticker,bid,ask" CSV, overwriting
// any previous snapshot. Missing bids and asks are written as empty fields.
func WriteSnapshot(path string, pairs []Pair) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	for _, pair := range pairs {
		record := []string{pair.Ticker, formatQuote(pair.Bid), formatQuote(pair.Ask)}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

// ReadSnapshot loads pair quotes from a snapshot CSV. Empty or "None"
// bid/ask fields decode to nil so Build skips them.
func ReadSnapshot(path string) ([]Pair, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 3

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read forex snapshot %s: %w", path, err)
	}

	pairs := make([]Pair, 0, len(records))
	for _, record := range records {
		pairs = append(pairs, Pair{
			Ticker: record[0],
			Bid:    parseQuote(record[1]),
			Ask:    parseQuote(record[2]),
		})
	}

	return pairs, nil
}

func formatQuote(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func parseQuote(field string) *float64 {
	if field == "" || field == "None" {
		return nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return nil
	}
	return &v
}
