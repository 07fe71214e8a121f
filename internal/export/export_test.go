package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func sampleView() View {
	return View{
		Headers: []string{"id", "name", "note"},
		Rows: [][]string{
			{"1", "alice", "plain"},
			{"2", "bob", "has, comma"},
			{"3", "carol", "NULL"},
		},
	}
}

func TestToCSVWritesBOMAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := ToCSV(path, sampleView()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.HasPrefix(data, utf8BOM) {
		t.Fatalf("expected UTF-8 BOM prefix")
	}
	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d records", len(records))
	}
	if records[0][2] != "note" {
		t.Fatalf("expected header row first, got %v", records[0])
	}
	if records[2][2] != "has, comma" {
		t.Fatalf("expected comma cell to survive quoting, got %q", records[2][2])
	}
}

func TestToJSONNullsAndValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := ToJSON(path, sampleView()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var objs []map[string]any
	if err := json.Unmarshal(data, &objs); err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if len(objs) != 3 {
		t.Fatalf("expected 3 objects, got %d", len(objs))
	}
	if objs[0]["name"] != "alice" {
		t.Fatalf("expected first object name alice, got %v", objs[0]["name"])
	}
	if objs[2]["note"] != nil {
		t.Fatalf("expected NULL cell exported as null, got %v", objs[2]["note"])
	}
}

func TestSaveDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "rows.JSON")
	if err := Save(jsonPath, sampleView()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var objs []map[string]any
	if err := json.Unmarshal(data, &objs); err != nil {
		t.Fatalf("expected JSON for .JSON extension: %v", err)
	}

	csvPath := filepath.Join(dir, "rows.csv")
	if err := Save(csvPath, sampleView()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err = os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.HasPrefix(data, utf8BOM) {
		t.Fatalf("expected CSV output for .csv extension")
	}
}

func TestExportRejectsEmptyHeaders(t *testing.T) {
	dir := t.TempDir()
	if err := ToCSV(filepath.Join(dir, "x.csv"), View{}); err == nil {
		t.Fatalf("expected error for empty view")
	}
	if err := ToJSON(filepath.Join(dir, "x.json"), View{}); err == nil {
		t.Fatalf("expected error for empty view")
	}
}

func TestShortRowsPadded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.json")
	v := View{Headers: []string{"a", "b"}, Rows: [][]string{{"only"}}}
	if err := ToJSON(path, v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ := os.ReadFile(path)
	var objs []map[string]any
	if err := json.Unmarshal(data, &objs); err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if objs[0]["b"] != "" {
		t.Fatalf("expected missing cell as empty string, got %v", objs[0]["b"])
	}
}
