package ops

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// InputDirEnv names the environment variable carrying the session's
// read-only input directory. When set, save targets inside it are refused.
const InputDirEnv = "SHEETWRIGHT_INPUT_DIR"

// ErrInputDirWrite is returned when a save path resolves inside the
// session's input directory.
var ErrInputDirWrite = errors.New("save path resolves inside the read-only input directory")

// CSVSheet is the pseudo sheet name used for .csv artifacts.
const CSVSheet = "CSV"

// Load reads one sheet of an artifact into a Table. For .csv files the
// sheet argument is ignored.
func Load(path, sheet string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	var (
		t   *Table
		err error
	)
	if isCSV(path) {
		t, err = loadCSV(path)
	} else {
		t, err = loadXLSX(path, sheet)
	}
	if err != nil {
		return nil, err
	}
	t.normalize()
	return t, nil
}

// Save writes a Table to path, choosing the format from the extension.
// It refuses a target inside the input directory and refuses an empty path:
// overwriting the source artifact is never implicit.
func Save(t *Table, path, sheet string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("save path must not be empty")
	}
	if err := guardSavePath(path); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if isCSV(path) {
		return saveCSV(t, path)
	}
	return saveXLSX(t, path, sheet)
}

// guardSavePath enforces the read-only input contract at call time. This is
// the last of three layers; the validator and the executor check the same
// property syntactically before the script ever runs.
func guardSavePath(path string) error {
	inputDir := os.Getenv(InputDirEnv)
	if inputDir == "" {
		return nil
	}
	absTarget, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	absInput, err := filepath.Abs(inputDir)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(absInput, absTarget)
	if err != nil {
		return nil
	}
	if rel == "." || !strings.HasPrefix(rel, "..") {
		return fmt.Errorf("%w: %s", ErrInputDirWrite, path)
	}
	return nil
}

func isCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

func loadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}
	return &Table{Columns: records[0], Rows: records[1:]}, nil
}

func saveCSV(t *Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func loadXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}
	return &Table{Columns: rows[0], Rows: rows[1:]}, nil
}

func saveXLSX(t *Table, path, sheet string) error {
	if sheet == "" || sheet == CSVSheet {
		sheet = "Sheet1"
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for j, c := range row {
			cells[j] = c
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

// loadAndSave wraps the read-modify-write cycle shared by every mutating
// operation.
func loadAndSave(path, sheet, savePath string, modify func(*Table) (string, error)) (string, error) {
	t, err := Load(path, sheet)
	if err != nil {
		return "", err
	}
	msg, err := modify(t)
	if err != nil {
		return "", err
	}
	if err := Save(t, savePath, sheet); err != nil {
		return "", err
	}
	return msg, nil
}
