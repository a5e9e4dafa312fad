package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/robinvdvleuten/financetracker/telemetry"
)

// Backup copies the expenses file to the backup slot. It does nothing, and
// reports false, when there is no expenses file yet.
func (s *Store) Backup(ctx context.Context) (bool, error) {
	timer := telemetry.StartTimer(ctx, "store.backup")
	defer timer.End()

	return copyIfExists(s.DataFile(), s.BackupFile())
}

// Restore copies the backup over the expenses file. It does nothing, and
// reports false, when no backup exists.
func (s *Store) Restore(ctx context.Context) (bool, error) {
	timer := telemetry.StartTimer(ctx, "store.restore")
	defer timer.End()

	return copyIfExists(s.BackupFile(), s.DataFile())
}

func copyIfExists(src, dst string) (bool, error) {
	in, err := os.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return false, fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return false, fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return false, fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		return false, fmt.Errorf("failed to close %s: %w", dst, err)
	}

	return true, nil
}
