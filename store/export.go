package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/robinvdvleuten/financetracker/expense"
	"github.com/robinvdvleuten/financetracker/telemetry"
)

var csvHeader = []string{"id", "date", "amount", "category", "description"}

// ExportCSV writes records to the export file, replacing any previous
// export, and returns its path.
func (s *Store) ExportCSV(ctx context.Context, records []expense.Expense) (string, error) {
	path := s.ExportFile()
	timer := telemetry.StartTimer(ctx, "store.export "+filepath.Base(path))
	defer timer.End()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	_ = w.Write(csvHeader)
	for _, e := range records {
		_ = w.Write([]string{
			strconv.Itoa(e.ID),
			e.Date,
			e.Amount.String(),
			e.Category,
			e.Description,
		})
	}
	w.Flush()

	if err := w.Error(); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	s.logger.DebugContext(ctx, "exported expenses", "path", path, "count", len(records))
	return path, nil
}
