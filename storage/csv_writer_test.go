package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
)

func TestCleanRowSanitizesText(t *testing.T) {
	rec := models.CleanRecord{
		SellerName:  "=HYPERLINK(\"http://x\")",
		Notes:       "@SUM(A1)",
		Floor:       -1,
		Price:       2500000,
		HasMortgage: true,
		ProcessedAt: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
	row := CleanRow(rec)

	if len(row) != len(models.CleanColumns) {
		t.Fatalf("len(row) = %d; want %d", len(row), len(models.CleanColumns))
	}
	got := map[string]string{}
	for i, col := range models.CleanColumns {
		got[col] = row[i]
	}

	tests := []struct {
		col, want string
	}{
		{models.FieldSellerName, "'=HYPERLINK(\"http://x\")"},
		{models.FieldNotes, "'@SUM(A1)"},
		{models.FieldFloor, "-1"},
		{models.FieldPrice, "2500000"},
		{models.FieldHasMortgage, "true"},
		{models.FieldHasLien, "false"},
		{models.FieldProcessedAt, "2026-01-01T09:00:00Z"},
	}
	for _, tt := range tests {
		if got[tt.col] != tt.want {
			t.Errorf("CleanRow[%s] = %q; want %q", tt.col, got[tt.col], tt.want)
		}
	}
}

func TestFeatureRow(t *testing.T) {
	row := FeatureRow(models.Features{
		PricePerSqm:  26315.79,
		HasParking:   1,
		Floor:        3,
		Rooms:        4.5,
		AreaSqm:      95,
		PropertyType: "apartment",
	})
	want := []string{"26315.79", "1", "0", "3", "4.5", "95", "0", "0", "0", "apartment"}
	if strings.Join(row, ",") != strings.Join(want, ",") {
		t.Errorf("FeatureRow = %v; want %v", row, want)
	}
}

func TestCleanDataWriterWritesBOMAndHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "clean_data.csv")
	w, err := NewCleanDataWriter(path)
	if err != nil {
		t.Fatalf("NewCleanDataWriter: %v", err)
	}
	if err := w.WriteClean([]models.CleanRecord{{SellerName: "ישראל ישראלי"}}); err != nil {
		t.Fatalf("WriteClean: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), utf8BOM) {
		t.Error("file must start with a UTF-8 BOM")
	}

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), utf8BOM))).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("rows = %d; want header + 1", len(records))
	}
	if records[0][0] != models.FieldSellerName || records[1][0] != "ישראל ישראלי" {
		t.Errorf("first column = %q / %q", records[0][0], records[1][0])
	}
}
