// Package symbols reads ticker lists and the NASDAQ symbol-directory files.
package symbols

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadList reads a line-oriented ticker file, one case-preserved symbol per
// line. Blank lines are ignored.
func LoadList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var symbols []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		symbol := strings.TrimSpace(scanner.Text())
		if symbol == "" {
			continue
		}
		symbols = append(symbols, symbol)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return symbols, nil
}

// WriteList persists symbols one per line.
func WriteList(path string, symbols []string) error {
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

	writer := bufio.NewWriter(file)
	for _, symbol := range symbols {
		if _, err := writer.WriteString(symbol + "\n"); err != nil {
			return err
		}
	}
	return writer.Flush()
}

// MergeDirectory combines the NASDAQ-listed and other-listed directory files
// (pipe-delimited, one header row) into a single ticker list. ETFs in the
// other-listed feed are excluded.
func MergeDirectory(nasdaqPath, otherPath string) ([]string, error) {
	nasdaq, err := loadNasdaqListed(nasdaqPath)
	if err != nil {
		return nil, err
	}
	other, err := loadOtherListed(otherPath)
	if err != nil {
		return nil, err
	}
	return append(nasdaq, other...), nil
}

func loadNasdaqListed(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var symbols []string
	isHeader := true
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if isHeader {
			isHeader = false
			continue
		}
		if line == "" {
			continue
		}
		symbols = append(symbols, strings.SplitN(line, "|", 2)[0])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return symbols, nil
}

const otherListedETFColumn = 4

func loadOtherListed(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var symbols []string
	isHeader := true
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) <= otherListedETFColumn {
			continue
		}
		etfColumn := parts[otherListedETFColumn]

		if isHeader {
			if etfColumn != "ETF" {
				return nil, fmt.Errorf("unexpected other-listed header column %q in %s", etfColumn, path)
			}
			isHeader = false
			continue
		}

		if etfColumn == "Y" {
			continue
		}
		symbols = append(symbols, parts[0])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return symbols, nil
}
