package stores

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func setupTestStore(t *testing.T) (*FileStore, string, string) {
	t.Helper()

	root := t.TempDir()
	in := filepath.Join(root, "testCases")
	out := filepath.Join(root, "outputFiles")
	if err := os.MkdirAll(in, 0755); err != nil {
		t.Fatalf("Failed to create input dir: %v", err)
	}

	store, err := NewFileStore(in, out, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store, in, out
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func TestNewFileStore_Validation(t *testing.T) {
	dir := t.TempDir()

	if _, err := NewFileStore("", dir, zerolog.Nop()); err == nil {
		t.Error("Expected error for empty input dir")
	}
	if _, err := NewFileStore(dir, "", zerolog.Nop()); err == nil {
		t.Error("Expected error for empty output dir")
	}
	if _, err := NewFileStore(dir, dir, zerolog.Nop()); err == nil {
		t.Error("Expected error when input and output are the same")
	}
	if _, err := NewFileStore(dir, "/", zerolog.Nop()); err == nil {
		t.Error("Expected error for root output dir")
	}
	if _, err := NewFileStore(filepath.Join(dir, "in"), dir, zerolog.Nop()); err == nil {
		t.Error("Expected error when input is inside output")
	}
	if _, err := NewFileStore(dir, filepath.Join(dir, "out"), zerolog.Nop()); err != nil {
		t.Errorf("Output inside input should be allowed: %v", err)
	}
}

func TestFileStore_ListInputs(t *testing.T) {
	store, in, _ := setupTestStore(t)

	writeFile(t, in, "b.json", "{}")
	writeFile(t, in, "a.yaml", "{}")
	writeFile(t, in, "notes.txt", "ignored")
	writeFile(t, in, ".hidden.json", "{}")
	if err := os.Mkdir(filepath.Join(in, "sub.json"), 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}

	ids, err := store.ListInputs(context.Background())
	if err != nil {
		t.Fatalf("ListInputs failed: %v", err)
	}

	if got := strings.Join(ids, ","); got != "a.yaml,b.json" {
		t.Errorf("Unexpected inputs %q", got)
	}
}

func TestListRecordFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "z.yml", "{}")
	writeFile(t, dir, "m.json", "{}")
	writeFile(t, dir, "readme.md", "ignored")
	writeFile(t, dir, ".m.yaml", "{}")

	names, err := ListRecordFiles(context.Background(), dir)
	if err != nil {
		t.Fatalf("ListRecordFiles failed: %v", err)
	}
	if got := strings.Join(names, ","); got != "m.json,z.yml" {
		t.Errorf("Unexpected records %q", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ListRecordFiles(ctx, dir); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}

	if _, err := ListRecordFiles(context.Background(), filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestFileStore_ListInputsMissingDir(t *testing.T) {
	store, in, _ := setupTestStore(t)
	if err := os.RemoveAll(in); err != nil {
		t.Fatalf("Failed to remove input dir: %v", err)
	}

	if _, err := store.ListInputs(context.Background()); err == nil {
		t.Error("Expected error for missing input directory")
	}
}

func TestFileStore_ReadAndWrite(t *testing.T) {
	store, in, out := setupTestStore(t)
	ctx := context.Background()

	writeFile(t, in, "input1.json", `{"machine":{}}`)

	data, err := store.ReadInput(ctx, "input1.json")
	if err != nil {
		t.Fatalf("ReadInput failed: %v", err)
	}
	if string(data) != `{"machine":{}}` {
		t.Errorf("Unexpected content %q", data)
	}

	if err := store.WriteReport(ctx, "input1.json", "tea is prepared\n"); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(out, "input1_result.txt"))
	if err != nil {
		t.Fatalf("Report not written: %v", err)
	}
	if string(got) != "tea is prepared\n" {
		t.Errorf("Unexpected report %q", got)
	}
}

func TestFileStore_RejectsPathTraversal(t *testing.T) {
	store, _, _ := setupTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"", "..", "../x.json", "sub/x.json"} {
		if _, err := store.ReadInput(ctx, id); !errors.Is(err, ErrInvalidID) {
			t.Errorf("ReadInput(%q): expected ErrInvalidID, got %v", id, err)
		}
		if err := store.WriteReport(ctx, id, ""); !errors.Is(err, ErrInvalidID) {
			t.Errorf("WriteReport(%q): expected ErrInvalidID, got %v", id, err)
		}
	}
}

func TestFileStore_Reset(t *testing.T) {
	store, _, out := setupTestStore(t)
	ctx := context.Background()

	// Output directory does not exist yet.
	if err := store.Reset(ctx); err != nil {
		t.Fatalf("Reset on missing dir failed: %v", err)
	}
	writeFile(t, out, "stale_result.txt", "old")

	if err := store.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatalf("Output dir missing after reset: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty output dir, found %d entries", len(entries))
	}
}

func TestFileStore_CancelledContext(t *testing.T) {
	store, in, _ := setupTestStore(t)
	writeFile(t, in, "a.json", "{}")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.ReadInput(ctx, "a.json"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if err := store.Reset(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestReportName(t *testing.T) {
	cases := map[string]string{
		"input1.json":     "input1_result.txt",
		"machine.v2.yaml": "machine_result.txt",
		"noext":           "noext_result.txt",
	}
	for id, want := range cases {
		if got := ReportName(id); got != want {
			t.Errorf("ReportName(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestFileStore_Watch(t *testing.T) {
	store, in, _ := setupTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 4)
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, 20*time.Millisecond, func(id string) {
			changed <- id
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	writeFile(t, in, "notes.txt", "ignored")
	writeFile(t, in, "m.json", "{}")

	select {
	case id := <-changed:
		if id != "m.json" {
			t.Errorf("Expected m.json, got %s", id)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for watch callback")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}
