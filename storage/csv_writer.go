package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/drorlaib-lgtm/real-estate-automation/models"
	"github.com/drorlaib-lgtm/real-estate-automation/utils"
)

// utf8BOM lets spreadsheet applications detect Hebrew text.
const utf8BOM = "\ufeff"

// CSVWriter writes rows to a CSV file. It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string, header []string, bom bool) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}
	if bom {
		if _, err := f.WriteString(utf8BOM); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("csv: write bom: %w", err)
		}
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// NewCleanDataWriter opens clean_data.csv with the clean record columns.
func NewCleanDataWriter(path string) (*CSVWriter, error) {
	return NewCSVWriter(path, models.CleanColumns, true)
}

// WriteRows appends rows and flushes.
func (c *CSVWriter) WriteRows(rows [][]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, row := range rows {
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// WriteClean writes one row per clean record in models.CleanColumns order.
func (c *CSVWriter) WriteClean(recs []models.CleanRecord) error {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, CleanRow(r))
	}
	return c.WriteRows(rows)
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

// CleanRow renders a clean record as CSV cells. User-entered text is
// neutralised against spreadsheet formula injection.
func CleanRow(r models.CleanRecord) []string {
	values := r.Map()
	row := make([]string, len(models.CleanColumns))
	for i, col := range models.CleanColumns {
		row[i] = cell(values[col])
	}
	return row
}

// FeatureRow renders a feature vector in the features.csv column order.
func FeatureRow(f models.Features) []string {
	return []string{
		formatFloat(f.PricePerSqm),
		strconv.Itoa(f.HasParking),
		strconv.Itoa(f.HasStorage),
		strconv.Itoa(f.Floor),
		formatFloat(f.Rooms),
		formatFloat(f.AreaSqm),
		strconv.Itoa(f.HasMortgage),
		strconv.Itoa(f.HasLien),
		strconv.Itoa(f.HasViolations),
		utils.SanitizeForFormulaInjection(f.PropertyType),
	}
}

func cell(v any) string {
	switch x := v.(type) {
	case string:
		return utils.SanitizeForFormulaInjection(utils.StripUnprintable(x))
	case float64:
		return formatFloat(x)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
