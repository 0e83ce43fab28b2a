// Package report writes the human-readable carbon history file.
package report

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/Veraticus/carbon-budget/internal/model"
	"github.com/spf13/afero"
)

// FileSuffix is appended to the account name to form the report file name.
const FileSuffix = "_carbon_history.txt"

const rule = "-------------------------------------------------------"

// FileWriter saves history reports into a directory, replacing the previous
// report for the account on every save.
type FileWriter struct {
	fs  afero.Fs
	dir string
}

// NewFileWriter creates a writer rooted at dir. A nil fs uses the OS filesystem.
func NewFileWriter(fs afero.Fs, dir string) *FileWriter {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if dir == "" {
		dir = "."
	}
	return &FileWriter{fs: fs, dir: dir}
}

// Path returns the report location for an account.
func (w *FileWriter) Path(accountName string) string {
	return filepath.Join(w.dir, FileName(accountName))
}

// FileName returns "<accountName>_carbon_history.txt".
func FileName(accountName string) string {
	return accountName + FileSuffix
}

// WriteHistory renders summary and overwrites the account's report file.
func (w *FileWriter) WriteHistory(ctx context.Context, summary model.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := w.fs.MkdirAll(w.dir, 0o750); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	path := w.Path(summary.Name)
	f, err := w.fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if err := Render(f, summary); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}

	common.LogDebug("History saved", common.Fields{"path": path, "transactions": len(summary.Transactions)})
	return nil
}

// Render writes the report text for summary to out.
func Render(out io.Writer, summary model.Summary) error {
	over := "NO"
	if summary.OverBudget {
		over = "YES"
	}

	lines := []string{
		fmt.Sprintf("===== CARBON EMISSION HISTORY FOR %s =====", summary.Name),
		"Period: " + summary.Period.DisplayName(),
		"Initial Budget: " + model.FormatAmount(summary.Initial) + " kg",
		"Used: " + model.FormatAmount(summary.Used) + " kg",
		"Remaining: " + model.FormatAmount(summary.Remaining) + " kg",
		"Over Budget?: " + over,
		rule,
		"DATE & TIME | CATEGORY | QUANTITY | EMISSION (kg CO2e)",
		rule,
	}

	if len(summary.Transactions) == 0 {
		lines = append(lines, "No activities logged.")
	}
	for _, txn := range summary.Transactions {
		lines = append(lines, txn.String())
	}
	lines = append(lines, "", "End of Report.")

	for _, line := range lines {
		if _, err := io.WriteString(out, line+"\n"); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}
