// Package localfs keeps best-effort JSON backups of raw feedback on local
// disk, one file per record.
package localfs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kirillkom/feedback-insights/internal/core/domain"
)

const rawPrefix = "raw-feedback"

type Archive struct {
	basePath string
}

func New(basePath string) (*Archive, error) {
	if basePath == "" {
		basePath = "./data/archive"
	}
	if err := os.MkdirAll(filepath.Join(basePath, rawPrefix), 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &Archive{basePath: basePath}, nil
}

func (a *Archive) ArchiveRaw(_ context.Context, record *domain.RawFeedback) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal raw feedback: %w", err)
	}

	path := filepath.Join(a.basePath, rawPrefix, record.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write archive file: %w", err)
	}
	return nil
}

// Open returns a stored backup, mainly for inspection and tests.
func (a *Archive) Open(_ context.Context, id string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(a.basePath, rawPrefix, id+".json"))
	if err != nil {
		return nil, fmt.Errorf("read archive file: %w", err)
	}
	return data, nil
}
