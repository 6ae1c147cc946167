package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/noah-isme/bap-api/internal/models"
)

// RecordFileRepository keeps the whole record collection in a single JSON
// array file. Writes go to a temp file in the same directory that is renamed
// over the canonical file, so readers never observe a partial document.
// It does not serialize concurrent writers; callers own that.
type RecordFileRepository struct {
	path   string
	logger *zap.Logger
}

// NewRecordFileRepository constructs the repository for the given data file.
func NewRecordFileRepository(path string, logger *zap.Logger) *RecordFileRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordFileRepository{path: path, logger: logger}
}

// Load returns every stored record. A missing or unparsable file yields an
// empty collection rather than an error.
func (r *RecordFileRepository) Load(ctx context.Context) ([]models.Record, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("record file unreadable, treating as empty", zap.String("path", r.path), zap.Error(err))
		}
		return []models.Record{}, nil
	}
	var records []models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		r.logger.Warn("record file unparsable, treating as empty", zap.String("path", r.path), zap.Error(err))
		return []models.Record{}, nil
	}
	if records == nil {
		records = []models.Record{}
	}
	return records, nil
}

// Save replaces the stored collection atomically.
func (r *RecordFileRepository) Save(ctx context.Context, records []models.Record) error {
	if records == nil {
		records = []models.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("prepare data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp record file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		os.Remove(tmpPath)
		return fmt.Errorf("write temp record file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp record file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp record file: %w", err)
	}
	// CreateTemp uses 0600; the data file has always been world-readable.
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp record file: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace record file: %w", err)
	}
	return nil
}

// Path returns the canonical data file location.
func (r *RecordFileRepository) Path() string {
	return r.path
}

// Ping reports whether the data directory exists, creating it when missing.
func (r *RecordFileRepository) Ping(ctx context.Context) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("prepare data directory: %w", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat data directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory %s is not a directory", dir)
	}
	return nil
}
