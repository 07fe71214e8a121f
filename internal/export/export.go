package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// View is what gets exported: headers and rows exactly as displayed, with
// filters and column arrangement already applied by the caller.
type View struct {
	Headers []string
	Rows    [][]string
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Save picks the format from the extension: .json writes a JSON array,
// anything else CSV.
func Save(path string, v View) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ToJSON(path, v)
	}
	return ToCSV(path, v)
}

// ToCSV writes the view with a UTF-8 BOM so spreadsheet imports pick the
// right encoding.
func ToCSV(path string, v View) error {
	if len(v.Headers) == 0 {
		return errors.New("nothing to export")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(utf8BOM); err != nil {
		return err
	}
	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write(v.Headers); err != nil {
		return err
	}
	for _, row := range v.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// ToJSON writes an array of objects keyed by header. NULL cells become JSON
// null instead of the literal string.
func ToJSON(path string, v View) error {
	if len(v.Headers) == 0 {
		return errors.New("nothing to export")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	objs := make([]map[string]any, 0, len(v.Rows))
	for _, row := range v.Rows {
		obj := make(map[string]any, len(v.Headers))
		for i, h := range v.Headers {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			if cell == "NULL" {
				obj[h] = nil
			} else {
				obj[h] = cell
			}
		}
		objs = append(objs, obj)
	}

	bw := bufio.NewWriter(f)
	defer bw.Flush()
	enc := json.NewEncoder(bw)
	enc.SetIndent("", "  ")
	return enc.Encode(objs)
}
