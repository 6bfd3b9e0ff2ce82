// Package catalog scans the read-only input directory and describes what
// is there: one artifact per spreadsheet file, one entry per sheet with
// its header row and row count. The description feeds the generation
// prompt and the interactive listing.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet is one tab of a workbook, or the single logical sheet of a CSV.
type Sheet struct {
	Name    string
	Headers []string
	Rows    int // data rows, header excluded
}

// Artifact is one input file. A file that cannot be opened stays in the
// catalog with Err set, so the listing shows it instead of hiding it.
type Artifact struct {
	Name   string
	Path   string
	Sheets []Sheet
	Err    error
}

// Catalog is one scan of the input directory. Scans are cheap; the
// session re-scans on demand rather than watching the directory.
type Catalog struct {
	Dir       string
	Artifacts []Artifact
}

// CSVSheetName is the logical sheet name given to CSV files.
const CSVSheetName = "CSV"

// Scan reads the input directory. An empty or missing directory yields an
// empty catalog, not an error; only the directory read itself can fail.
func Scan(dir string) (*Catalog, error) {
	cat := &Catalog{Dir: dir}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return cat, nil
		}
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".xlsx" && ext != ".csv" {
			continue
		}
		path := filepath.Join(dir, name)
		artifact := Artifact{Name: name, Path: path}
		if ext == ".csv" {
			artifact.Sheets, artifact.Err = scanCSV(path)
		} else {
			artifact.Sheets, artifact.Err = scanWorkbook(path)
		}
		cat.Artifacts = append(cat.Artifacts, artifact)
	}

	sort.Slice(cat.Artifacts, func(i, j int) bool {
		return cat.Artifacts[i].Name < cat.Artifacts[j].Name
	})
	return cat, nil
}

// Empty reports whether the scan found no usable artifacts at all.
func (c *Catalog) Empty() bool {
	return len(c.Artifacts) == 0
}

// Describe renders the catalog for the generation prompt and the
// interactive listing.
func (c *Catalog) Describe() string {
	if c.Empty() {
		return "(no input files)"
	}
	var b strings.Builder
	for _, artifact := range c.Artifacts {
		if artifact.Err != nil {
			fmt.Fprintf(&b, "- %s: unreadable (%v)\n", artifact.Name, artifact.Err)
			continue
		}
		fmt.Fprintf(&b, "- %s\n", artifact.Name)
		for _, sheet := range artifact.Sheets {
			fmt.Fprintf(&b, "    sheet %q: %d rows, columns [%s]\n",
				sheet.Name, sheet.Rows, strings.Join(sheet.Headers, ", "))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func scanWorkbook(path string) ([]Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		sheet := Sheet{Name: name}
		if len(rows) > 0 {
			sheet.Headers = rows[0]
			sheet.Rows = len(rows) - 1
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

func scanCSV(path string) ([]Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	sheet := Sheet{Name: CSVSheetName}
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if first {
			sheet.Headers = record
			first = false
			continue
		}
		sheet.Rows++
	}
	return []Sheet{sheet}, nil
}
