package ui

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bamsammich/treecopy/internal/engine"
)

// WriteAuditLog renders the audit records as a table. Paths are shown
// relative to srcRoot's parent and dstRoot when they lie below them.
func WriteAuditLog(w io.Writer, records []engine.CopyRecord, srcRoot, dstRoot string, theme Theme) error {
	if len(records) == 0 {
		return nil
	}
	st := newStyles(w, theme)

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		errMsg := ""
		if rec.Err != nil {
			errMsg = rec.Err.Error()
		}
		rows = append(rows, []string{
			rec.Outcome.String(),
			StripRoot(parentOf(srcRoot), rec.SourcePath),
			StripRoot(dstRoot, rec.DestinationPath),
			errMsg,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		Headers("OUTCOME", "SOURCE", "DESTINATION", "ERROR").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return st.header.Padding(0, 1)
			}
			if col == 0 && row >= 0 && row < len(rows) {
				return st.outcome(rows[row][0]).Padding(0, 1)
			}
			return base
		})

	_, err := fmt.Fprintln(w, t.String())
	return err
}

func parentOf(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Dir(path)
}
