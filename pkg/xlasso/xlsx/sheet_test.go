package xlsx

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/xlasso-go/pkg/xlasso/models"
)

// writeTestFile authors a small workbook and returns its path.
func writeTestFile(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "B2", "Header")
	f.SetCellValue(sheetName, "B3", 100)
	f.SetCellValue(sheetName, "C3", 200.5)
	if _, err := f.NewSheet("Data"); err != nil {
		t.Fatalf("Failed to add sheet: %v", err)
	}
	f.SetCellValue("Data", "A1", "x")

	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return tmpFile
}

func TestOpenAndReadRect(t *testing.T) {
	path := writeTestFile(t)
	sheet, err := Open(path, "Sheet1", nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer sheet.Close()

	nd := models.Coords{Row: 2, Col: 2}
	values, err := sheet.ReadRect(models.Coords{Row: 1, Col: 1}, &nd)
	if err != nil {
		t.Fatalf("ReadRect failed: %v", err)
	}
	want := [][]any{
		{"Header", nil},
		{int64(100), 200.5},
	}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("values = %v, want %v", values, want)
	}
}

func TestReadRectScalar(t *testing.T) {
	path := writeTestFile(t)
	sheet, err := Open(path, "Sheet1", nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer sheet.Close()

	v, err := sheet.ReadRect(models.Coords{Row: 1, Col: 1}, nil)
	if err != nil {
		t.Fatalf("ReadRect failed: %v", err)
	}
	if v != "Header" {
		t.Errorf("value = %v, want Header", v)
	}
	// Cells outside the decoded area read as explicit empties.
	v, err = sheet.ReadRect(models.Coords{Row: 90, Col: 90}, nil)
	if err != nil || v != nil {
		t.Errorf("value = %v, %v, want nil", v, err)
	}
}

func TestStatesAndMargins(t *testing.T) {
	path := writeTestFile(t)
	sheet, err := Open(path, "Sheet1", nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer sheet.Close()

	states := sheet.StatesMatrix()
	if !states[1][1] || !states[2][1] || !states[2][2] {
		t.Error("states matrix misses full cells")
	}
	if states[0][0] {
		t.Error("states matrix marks an empty cell full")
	}

	min, max := sheet.MarginCoords()
	if min != (models.Coords{Row: 1, Col: 1}) {
		t.Errorf("min = %v, want R2C2", min)
	}
	if max != (models.Coords{Row: 2, Col: 2}) {
		t.Errorf("max = %v, want R3C3", max)
	}
}

func TestSheetIDs(t *testing.T) {
	path := writeTestFile(t)
	sheet, err := Open(path, "Sheet1", nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer sheet.Close()

	wbID, ids := sheet.SheetIDs()
	if wbID != path {
		t.Errorf("wbID = %q, want the path", wbID)
	}
	if len(ids) != 2 || ids[0] != "Sheet1" {
		t.Errorf("ids = %v, want name and index", ids)
	}
}

func TestOpenSiblingSheet(t *testing.T) {
	path := writeTestFile(t)
	sheet, err := Open(path, "Sheet1", nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer sheet.Close()

	sibling, err := sheet.OpenSiblingSheet("Data", nil)
	if err != nil {
		t.Fatalf("sibling open failed: %v", err)
	}
	v, err := sibling.ReadRect(models.Coords{}, nil)
	if err != nil || v != "x" {
		t.Errorf("sibling A1 = %v, %v, want x", v, err)
	}
	// The sibling does not own the file; closing it is a no-op.
	if err := sibling.Close(); err != nil {
		t.Errorf("sibling close failed: %v", err)
	}
	if _, err := sheet.ReadRect(models.Coords{Row: 1, Col: 1}, nil); err != nil {
		t.Errorf("owner read after sibling close failed: %v", err)
	}
}

func TestOpenByIndex(t *testing.T) {
	path := writeTestFile(t)
	sheet, err := Open(path, "0", nil)
	if err != nil {
		t.Fatalf("Open by index failed: %v", err)
	}
	defer sheet.Close()

	if name, _ := sheet.SheetIDs(); name != path {
		t.Errorf("wbID = %q", name)
	}
	if _, ids := sheet.SheetIDs(); ids[0] != "Sheet1" {
		t.Errorf("ids = %v, want Sheet1 first", ids)
	}
}

func TestValuesDecodedAtOpen(t *testing.T) {
	path := writeTestFile(t)
	sheet, err := Open(path, "Sheet1", nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	// Open decodes the whole sheet; states, margins and reads serve
	// the snapshot even after the file is released.
	if err := sheet.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if min, _ := sheet.MarginCoords(); min != (models.Coords{Row: 1, Col: 1}) {
		t.Errorf("min = %v, want R2C2", min)
	}
	if states := sheet.StatesMatrix(); states == nil || !states[1][1] {
		t.Error("states matrix lost after close")
	}
	v, err := sheet.ReadRect(models.Coords{Row: 1, Col: 1}, nil)
	if err != nil || v != "Header" {
		t.Errorf("value = %v, %v, want Header", v, err)
	}
}

func TestOpenMissingSheet(t *testing.T) {
	path := writeTestFile(t)
	if _, err := Open(path, "Nope", nil); err == nil {
		t.Error("expected an error for a missing sheet")
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"123", int64(123)},
		{"123.45", 123.45},
		{"-100", int64(-100)},
		{"TRUE", true},
		{"FALSE", false},
		{"hello", "hello"},
	}
	for _, tt := range tests {
		if got := parseValue(tt.input); got != tt.expected {
			t.Errorf("parseValue(%q) = %v (%T), want %v (%T)",
				tt.input, got, got, tt.expected, tt.expected)
		}
	}
}
