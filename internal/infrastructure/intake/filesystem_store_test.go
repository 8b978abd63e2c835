package intake

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/CATT-CODE/mlb-pipeline/internal/domain/snapshot"
)

func newTestStore(t *testing.T) (*FilesystemStore, string, string) {
	t.Helper()
	root := t.TempDir()
	intakeDir := filepath.Join(root, "raw")
	archiveDir := filepath.Join(root, "historical")

	store, err := NewFilesystemStore(intakeDir, archiveDir)
	if err != nil {
		t.Fatalf("new filesystem store: %v", err)
	}
	return store, intakeDir, archiveDir
}

func TestListPending_OnlyJSONFilesSorted(t *testing.T) {
	store, intakeDir, _ := newTestStore(t)

	for _, name := range []string{"b.json", "a.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(intakeDir, name), []byte("{}"), 0o644); err != nil {
			t.Fatalf("write fixture %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(intakeDir, "nested.json"), 0o755); err != nil {
		t.Fatalf("create fixture dir: %v", err)
	}

	tokens, err := store.ListPending(context.Background())
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(tokens) != 2 || tokens[0] != "a.json" || tokens[1] != "b.json" {
		t.Fatalf("unexpected tokens: %v", tokens)
	}
}

func TestReadAndArchive(t *testing.T) {
	store, intakeDir, archiveDir := newTestStore(t)

	doc := snapshot.Document{
		Teams: []snapshot.Team{{ID: 147, Name: "New York Yankees"}},
	}
	data, err := snapshot.Encode(doc)
	if err != nil {
		t.Fatalf("encode snapshot: %v", err)
	}

	token := "mlb_raw_2024-04-01_2024-04-07_20240408_093015.json"
	if err := os.WriteFile(filepath.Join(intakeDir, token), data, 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	got, err := store.Read(context.Background(), token)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if len(got.Teams) != 1 || got.Teams[0].ID != 147 {
		t.Fatalf("unexpected document: %+v", got)
	}

	if err := store.Archive(context.Background(), token); err != nil {
		t.Fatalf("archive snapshot: %v", err)
	}
	if _, err := os.Stat(filepath.Join(intakeDir, token)); !os.IsNotExist(err) {
		t.Fatalf("expected snapshot removed from intake, stat err: %v", err)
	}
	if _, err := os.Stat(filepath.Join(archiveDir, token)); err != nil {
		t.Fatalf("expected snapshot in archive: %v", err)
	}
}

func TestRead_MalformedDocument(t *testing.T) {
	store, intakeDir, _ := newTestStore(t)

	token := "broken.json"
	if err := os.WriteFile(filepath.Join(intakeDir, token), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := store.Read(context.Background(), token); err == nil {
		t.Fatalf("expected decode error for malformed document")
	}
}
