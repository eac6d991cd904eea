// Package storage provides the JSON statistics file and the SQLite session
// journal used by pomo.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
)

const dataFilePerm = 0o644

// JSONStore implements ports.StatsRepository on a single JSON file.
type JSONStore struct {
	path string
	now  func() time.Time
}

// Ensure JSONStore implements ports.StatsRepository.
var _ ports.StatsRepository = (*JSONStore)(nil)

// NewJSONStore creates a store backed by the file at path. The file is not
// touched until Load or Save is called.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path, now: time.Now}
}

// SetNowFunc overrides the clock used for quarantine file names.
func (s *JSONStore) SetNowFunc(now func() time.Time) {
	s.now = now
}

// Path returns the statistics file location.
func (s *JSONStore) Path() string {
	return s.path
}

// Load reads the record and the file modification time.
func (s *JSONStore) Load(ctx context.Context) (*domain.Statistics, time.Time, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewStatistics(), time.Time{}, nil
		}
		return nil, time.Time{}, fmt.Errorf("failed to read statistics: %w", err)
	}

	var modTime time.Time
	if info, err := os.Stat(s.path); err == nil {
		modTime = info.ModTime()
	}

	stats, err := decodeStatistics(data)
	if err != nil {
		return nil, modTime, &domain.ParseError{Path: s.path, Err: err}
	}
	return stats, modTime, nil
}

// Save writes the record through a temporary file and a rename, keeping the
// previous contents in a .bak file.
func (s *JSONStore) Save(ctx context.Context, stats *domain.Statistics) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode statistics: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	bestEffortBackup(s.path)

	if err := writeFileAtomic(s.path, data, dataFilePerm); err != nil {
		return fmt.Errorf("failed to write statistics: %w", err)
	}
	return nil
}

// Quarantine moves a corrupt file to <path>.corrupt.<timestamp>. When the
// .bak file decodes cleanly it is restored in place, modification time
// included, so the next Load succeeds with the last good record.
func (s *JSONStore) Quarantine(ctx context.Context) (string, error) {
	corruptPath := fmt.Sprintf("%s.corrupt.%s", s.path, s.now().Format("20060102-150405"))
	if err := os.Rename(s.path, corruptPath); err != nil {
		return "", fmt.Errorf("failed to quarantine statistics: %w", err)
	}

	bakPath := s.path + ".bak"
	bakInfo, err := os.Stat(bakPath)
	if err != nil {
		return corruptPath, nil
	}
	bak, err := os.ReadFile(bakPath)
	if err != nil {
		return corruptPath, nil
	}
	if _, err := decodeStatistics(bak); err != nil {
		return corruptPath, nil
	}
	if err := writeFileAtomic(s.path, bak, dataFilePerm); err != nil {
		return corruptPath, fmt.Errorf("failed to restore backup: %w", err)
	}
	// Load derives the last-known day from the mtime, so the restored file
	// keeps the day the backup was written.
	if err := os.Chtimes(s.path, bakInfo.ModTime(), bakInfo.ModTime()); err != nil {
		return corruptPath, fmt.Errorf("failed to restore backup time: %w", err)
	}
	return corruptPath, nil
}

func decodeStatistics(data []byte) (*domain.Statistics, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("file is empty")
	}
	stats := domain.NewStatistics()
	if err := json.Unmarshal(data, stats); err != nil {
		return nil, err
	}
	stats.Normalize()
	return stats, nil
}
