// Package targets loads batch target lists from text, CSV, and XLSX files.
package targets

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Load reads a list of target URLs from path. The format follows the file
// extension: .csv and .xlsx take the first column, anything else is treated
// as one target per line. Blank entries and #-comments are skipped,
// duplicates are dropped keeping first occurrence.
func Load(path string) ([]string, error) {
	var (
		targets []string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		targets, err = loadCSV(path)
	case ".xlsx":
		targets, err = loadXLSX(path)
	default:
		targets, err = loadLines(path)
	}
	if err != nil {
		return nil, err
	}
	return dedupe(targets), nil
}

func loadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "targets: open file")
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		out = append(out, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "targets: read file")
	}
	return out, nil
}

func loadCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "targets: open csv")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var out []string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "targets: read csv")
		}
		if len(rec) > 0 {
			out = append(out, rec[0])
		}
	}
	return out, nil
}

func loadXLSX(path string) ([]string, error) {
	file, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "targets: open xlsx")
	}
	if len(file.Sheets) == 0 {
		return nil, eris.New("targets: xlsx has no sheets")
	}

	var out []string
	for _, row := range file.Sheets[0].Rows {
		if len(row.Cells) == 0 {
			continue
		}
		out = append(out, row.Cells[0].String())
	}
	return out, nil
}

// dedupe trims, drops blanks and comments, skips a leading header cell, and
// removes duplicates.
func dedupe(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	var out []string
	for i, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		if i == 0 && isHeader(t) {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// isHeader recognizes common first-row labels in exported sheets.
func isHeader(s string) bool {
	switch strings.ToLower(s) {
	case "url", "website", "target", "domain", "practice":
		return true
	}
	return false
}
