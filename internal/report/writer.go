// Package report renders hardware row sets into the per-employee CSV and XLSX files
// and the combined audit CSV of a run.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/UnknownOlympus/charon/internal/lib/apperr"
	"github.com/UnknownOlympus/charon/internal/models"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Files are the artifacts produced for one employee.
type Files struct {
	CSVPath  string
	XLSXPath string
	Rows     int // Rows is the number of data rows appended to the combined file.
}

// WriterIface writes the reports of one employee at a time.
type WriterIface interface {
	ResetCombined() error
	WriteEmployee(employee models.Employee, assets []models.HardwareAsset) (Files, error)
	CombinedPath() string
}

// Writer is single use: one Writer per run. It remembers whether the combined header has
// been written.
type Writer struct {
	outputDir     string
	combinedPath  string
	delimiter     rune
	headerInPlace bool
}

func NewWriter(outputDir, combinedPath string, delimiter rune) *Writer {
	if delimiter == 0 {
		delimiter = ','
	}

	return &Writer{outputDir: outputDir, combinedPath: combinedPath, delimiter: delimiter}
}

func (w *Writer) CombinedPath() string {
	return w.combinedPath
}

// ResetCombined removes the combined file left by a previous run. A missing file is not an error.
func (w *Writer) ResetCombined() error {
	if err := os.Remove(w.combinedPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperr.E(apperr.ErrWrite, "report.ResetCombined", fmt.Errorf("failed to remove combined file: %w", err))
	}
	w.headerInPlace = false

	return nil
}

// WriteEmployee writes the employee CSV, converts it to XLSX and appends the rows to the
// combined file.
func (w *Writer) WriteEmployee(employee models.Employee, assets []models.HardwareAsset) (Files, error) {
	const opn = "report.WriteEmployee"

	if err := os.MkdirAll(w.outputDir, dirPerm); err != nil {
		return Files{}, apperr.E(apperr.ErrWrite, opn, fmt.Errorf("failed to create output dir: %w", err))
	}

	csvPath := filepath.Join(w.outputDir, "hardware_"+SafeName(employee)+".csv")
	if err := w.writeCSV(csvPath, assets); err != nil {
		return Files{}, apperr.E(apperr.ErrWrite, opn, err)
	}

	xlsxPath, err := ConvertCSVToXLSX(csvPath, w.delimiter)
	if err != nil {
		return Files{CSVPath: csvPath}, apperr.E(apperr.ErrWrite, opn, err)
	}

	appended, err := w.appendCombined(assets)
	if err != nil {
		return Files{CSVPath: csvPath, XLSXPath: xlsxPath}, apperr.E(apperr.ErrWrite, opn, err)
	}

	return Files{CSVPath: csvPath, XLSXPath: xlsxPath, Rows: appended}, nil
}

// SafeName derives the file name stem for an employee: "Given_Surname" with whitespace and
// characters that are not allowed in file names replaced by '_'.
func SafeName(employee models.Employee) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsControl(r) || strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, employee.GivenName+"_"+employee.Surname)
}

func (w *Writer) writeCSV(path string, assets []models.HardwareAsset) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePerm)
	if err != nil {
		return fmt.Errorf("failed to create employee CSV: %w", err)
	}

	err = w.encode(file, true, assets)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close employee CSV: %w", closeErr)
	}

	return err
}

func (w *Writer) appendCombined(assets []models.HardwareAsset) (int, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	writeHeader := !w.headerInPlace
	if writeHeader {
		// A combined file kept from an earlier run already carries its header.
		if info, err := os.Stat(w.combinedPath); err == nil && info.Size() > 0 {
			writeHeader = false
		}
	}

	file, err := os.OpenFile(w.combinedPath, flags, filePerm)
	if err != nil {
		return 0, fmt.Errorf("failed to open combined file: %w", err)
	}

	err = w.encode(file, writeHeader, assets)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close combined file: %w", closeErr)
	}
	if err != nil {
		return 0, err
	}
	w.headerInPlace = true

	return len(assets), nil
}

func (w *Writer) encode(out io.Writer, header bool, assets []models.HardwareAsset) error {
	cw := csv.NewWriter(out)
	cw.Comma = w.delimiter

	if header {
		if err := cw.Write(models.HardwareColumns); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	for _, asset := range assets {
		if err := cw.Write(asset.Values()); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}

// ReadCSV reads a report CSV, tolerating a byte order mark.
func ReadCSV(path string, delimiter rune) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(transform.NewReader(file, xunicode.BOMOverride(xunicode.UTF8.NewDecoder())))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV %s: %w", path, err)
	}

	return records, nil
}
