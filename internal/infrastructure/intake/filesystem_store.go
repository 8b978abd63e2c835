package intake

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/CATT-CODE/mlb-pipeline/internal/domain/snapshot"
)

// FilesystemStore treats a snapshot's filename as its source token.
// Pending snapshots live as *.json files in the intake directory and move
// to the archive directory once their unit commits.
type FilesystemStore struct {
	intakeDir  string
	archiveDir string
}

func NewFilesystemStore(intakeDir, archiveDir string) (*FilesystemStore, error) {
	if err := os.MkdirAll(intakeDir, 0o755); err != nil {
		return nil, fmt.Errorf("create intake dir %s: %w", intakeDir, err)
	}
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir %s: %w", archiveDir, err)
	}
	return &FilesystemStore{intakeDir: intakeDir, archiveDir: archiveDir}, nil
}

func (s *FilesystemStore) ListPending(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.intakeDir)
	if err != nil {
		return nil, fmt.Errorf("list intake dir %s: %w", s.intakeDir, err)
	}

	var tokens []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		tokens = append(tokens, entry.Name())
	}
	sort.Strings(tokens)
	return tokens, nil
}

func (s *FilesystemStore) Read(_ context.Context, token string) (snapshot.Document, error) {
	raw, err := os.ReadFile(filepath.Join(s.intakeDir, token))
	if err != nil {
		return snapshot.Document{}, fmt.Errorf("read snapshot %s: %w", token, err)
	}

	doc, err := snapshot.Decode(raw)
	if err != nil {
		return snapshot.Document{}, fmt.Errorf("decode snapshot %s: %w", token, err)
	}
	return doc, nil
}

func (s *FilesystemStore) Archive(_ context.Context, token string) error {
	src := filepath.Join(s.intakeDir, token)
	dst := filepath.Join(s.archiveDir, token)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("archive snapshot %s: %w", token, err)
	}
	return nil
}
