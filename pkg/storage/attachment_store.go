package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// placeholderName replaces filenames that sanitize to nothing.
const placeholderName = "upload"

// AttachmentStore persists uploaded documents on disk under a base directory.
type AttachmentStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewAttachmentStore returns a handle rooted at baseDir. The directory is
// created lazily on the first Store call.
func NewAttachmentStore(baseDir string, logger *zap.Logger) *AttachmentStore {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttachmentStore{baseDir: baseDir, logger: logger}
}

// Store copies r into a new file named <uuid>_<sanitized original name> and
// returns its path. A partially written file is removed on failure.
func (s *AttachmentStore) Store(originalName string, r io.Reader) (string, int64, error) {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("prepare upload directory: %w", err)
	}
	path := filepath.Join(s.baseDir, uuid.NewString()+"_"+SanitizeFilename(originalName))
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("create upload file: %w", err)
	}
	n, err := io.Copy(file, r)
	if err != nil {
		file.Close() //nolint:errcheck
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("write upload stream: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("close upload file: %w", err)
	}
	return path, n, nil
}

// Remove deletes a stored attachment. Failures never reach the caller; a
// record deletion must succeed regardless of attachment cleanup.
func (s *AttachmentStore) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("attachment already absent", zap.String("path", path))
			return
		}
		s.logger.Warn("failed to remove attachment", zap.String("path", path), zap.Error(err))
	}
}

// Dir exposes the base directory (useful for readiness checks).
func (s *AttachmentStore) Dir() string {
	return s.baseDir
}

// SanitizeFilename keeps ASCII letters, digits, '.', '_' and '-' and drops
// everything else, so a client name can never escape the upload directory.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return placeholderName
	}
	return cleaned
}
