package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/mathdrill/internal/session"
)

const (
	// SheetName is the worksheet records are written to.
	SheetName = "Sheet1"

	// Extension is the export file extension.
	Extension = ".xlsx"

	// fileNameLayout is yyMMdd_HHmm. Two sessions closed in the same
	// minute write to the same file; the later one wins.
	fileNameLayout = "060102_1504"
)

// Header holds the column titles of the export table.
var Header = []string{"Problem", "Submitted Answer", "Elapsed (s)"}

// WriteError reports a failed export. The caller decides how to surface it;
// the exporter never retries.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// FileName returns the export file name for a session ending at now.
func FileName(now time.Time) string {
	return now.Format(fileNameLayout) + Extension
}

// XLSX writes session records to an Excel workbook.
type XLSX struct {
	// Dir is the directory export files are written to. Empty means the
	// working directory.
	Dir string

	// Tick is the length of one countdown step. Records count elapsed
	// time in steps; the sheet shows seconds. Zero means one second.
	Tick time.Duration
}

var _ session.Exporter = (*XLSX)(nil)

// NewXLSX creates an exporter writing into dir for a countdown stepping
// every tick.
func NewXLSX(dir string, tick time.Duration) *XLSX {
	return &XLSX{Dir: dir, Tick: tick}
}

// seconds converts a count of countdown steps to seconds.
func (x *XLSX) seconds(ticks int) float64 {
	tick := x.Tick
	if tick <= 0 {
		tick = time.Second
	}
	return float64(ticks) * tick.Seconds()
}

// Export writes one header row followed by one row per record, in order.
// A timed-out record leaves the submitted answer cell blank.
func (x *XLSX) Export(records []session.SessionRecord, now time.Time) (string, error) {
	path := filepath.Join(x.Dir, FileName(now))

	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return "", &WriteError{Path: path, Err: fmt.Errorf("write header: %w", err)}
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", &WriteError{Path: path, Err: err}
		}
		var submitted any = ""
		if rec.Submitted != nil {
			submitted = *rec.Submitted
		}
		row := []any{rec.ProblemText, submitted, x.seconds(rec.ElapsedTicks)}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return "", &WriteError{Path: path, Err: fmt.Errorf("write row %d: %w", i+1, err)}
		}
	}

	if x.Dir != "" {
		if err := os.MkdirAll(x.Dir, 0o755); err != nil {
			return "", &WriteError{Path: path, Err: err}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return "", &WriteError{Path: path, Err: err}
	}
	return path, nil
}
