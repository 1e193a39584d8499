package deck

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Output file names inside every batch directory
const (
	CardFile = "TPmate.inp"
	InfoFile = "info.txt"
)

// ErrJobName is returned for job names that are empty or escape the output root
var ErrJobName = errors.New("invalid job name")

// Writer stores batches under <root>/<job>/<batch name>/
type Writer struct {
	root     string
	permFile os.FileMode
	permDir  os.FileMode
	bufSize  int
}

// NewWriter returns a writer rooted at root ("." when empty)
func NewWriter(root string) *Writer {
	if strings.TrimSpace(root) == "" {
		root = "."
	}
	return &Writer{root: root, permFile: 0o644, permDir: 0o755, bufSize: 64 * 1024}
}

// JobDir returns the directory holding every batch of job
func (w *Writer) JobDir(job string) (string, error) {
	clean := filepath.Clean(job)
	if strings.TrimSpace(job) == "" || clean == "." || clean == ".." ||
		filepath.IsAbs(clean) || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrJobName, job)
	}
	return filepath.Join(w.root, clean), nil
}

// WriteBatch writes the card and info file of b and returns the batch directory
func (w *Writer) WriteBatch(ctx context.Context, job string, b *Batch) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	jobDir, err := w.JobDir(job)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(jobDir, b.Name())
	if err := os.MkdirAll(dir, w.permDir); err != nil {
		return "", err
	}
	if err := w.writeAtomic(filepath.Join(dir, CardFile), b.Render(), w.permFile); err != nil {
		return "", fmt.Errorf("batch %s: %w", b.Name(), err)
	}
	if err := w.writeAtomic(filepath.Join(dir, InfoFile), b.Info(), w.permFile); err != nil {
		return "", fmt.Errorf("batch %s: %w", b.Name(), err)
	}
	return dir, nil
}

// writeAtomic writes to a temp file in the destination directory and
// renames it into place, so readers never see a partial file
func (w *Writer) writeAtomic(dest, content string, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, perm)

	bw := bufio.NewWriterSize(tmp, w.bufSize)
	if _, err := bw.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
