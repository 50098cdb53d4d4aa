package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"expensetracker/internal/core"
)

// CSVHeader is the first row of every export.
var CSVHeader = []string{"ID", "Date", "Category", "Amount"}

// ExportError reports a failed export. The destination is left untouched.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// WriteCSV writes the header and one row per expense, in the given order.
func WriteCSV(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range expenses {
		record := []string{
			strconv.FormatInt(e.ID, 10),
			e.Date.String(),
			e.Category,
			e.Amount.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write expense %d: %w", e.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ExportCSV writes expenses to path. Rows go to a temporary file next to the
// destination which is renamed into place only after a complete write, so the
// destination either holds the full export or is not touched.
func ExportCSV(expenses []core.Expense, path string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &ExportError{Path: path, Err: err}
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := WriteCSV(tmp, expenses); err != nil {
		return &ExportError{Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		return &ExportError{Path: path, Err: fmt.Errorf("sync: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		return &ExportError{Path: path, Err: fmt.Errorf("close: %w", err)}
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return &ExportError{Path: path, Err: fmt.Errorf("chmod: %w", err)}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &ExportError{Path: path, Err: fmt.Errorf("rename: %w", err)}
	}
	return nil
}
