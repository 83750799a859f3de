package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "nested", "out.csv")

	err := WriteFileAtomic(path, func(w io.Writer) error {
		_, err := fmt.Fprint(w, "id,name\n1,Opt\n")
		return err
	})
	if err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read written file: %v", err)
	}
	if string(content) != "id,name\n1,Opt\n" {
		t.Errorf("Unexpected content: %q", content)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("Expected only the target file in directory, found %d entries", len(entries))
	}
}

func TestWriteFileAtomicKeepsOldContentOnFailure(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "state.json")

	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}

	err := WriteFileAtomic(path, func(w io.Writer) error {
		_, _ = fmt.Fprint(w, "partial")
		return errors.New("disk full")
	})
	if err == nil {
		t.Fatal("Expected write error")
	}

	content, _ := os.ReadFile(path)
	if string(content) != "old" {
		t.Errorf("Expected original content to survive, got %q", content)
	}

	entries, _ := os.ReadDir(tempDir)
	if len(entries) != 1 {
		t.Errorf("Expected temporary file to be cleaned up, found %d entries", len(entries))
	}
}

func TestWriteJSONAndCopy(t *testing.T) {
	tempDir := t.TempDir()
	src := filepath.Join(tempDir, "a.json")
	dst := filepath.Join(tempDir, "backup", "a.json")

	if err := WriteJSON(src, map[string][]string{"Removal": {"removal"}}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if !Exists(src) {
		t.Fatal("Expected source file to exist")
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}

	a, _ := os.ReadFile(src)
	b, _ := os.ReadFile(dst)
	if string(a) != string(b) {
		t.Error("Copied content differs from source")
	}
	if Exists(filepath.Join(tempDir, "missing")) {
		t.Error("Expected Exists to be false for a missing file")
	}
}
