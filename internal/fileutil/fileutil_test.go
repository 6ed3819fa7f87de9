package fileutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func leftovers(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestWriteAtomicReplacesAndCreatesParents(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site", "fixes")
	path := filepath.Join(dir, "2015-honda-civic-alternator-whine.html")

	if err := WriteAtomic(path, []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := WriteAtomic(path, []byte("second")); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Fatalf("content = %q", got)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != filePerm {
		t.Fatalf("mode = %o", info.Mode().Perm())
	}
	if names := leftovers(t, dir); len(names) != 1 {
		t.Fatalf("temp files left behind: %v", names)
	}
}

func TestWriteAtomicFuncFailureKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "card.png")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("encode failed")
	err := WriteAtomicFunc(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "old" {
		t.Fatalf("previous content lost: %q", got)
	}
	if names := leftovers(t, dir); len(names) != 1 {
		t.Fatalf("temp files left behind: %v", names)
	}
}

func TestCopyVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "style.css")
	dst := filepath.Join(dir, "out", "assets", "style.css")

	content := []byte(":root{--brand:#0f172a}")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteAtomic(dst, []byte("stale and much longer than the source")); err != nil {
		t.Fatal(err)
	}

	n, err := CopyVerified(src, dst)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(len(content)) {
		t.Fatalf("copied %d bytes, want %d", n, len(content))
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestCopyVerifiedMissingSource(t *testing.T) {
	dir := t.TempDir()
	if _, err := CopyVerified(filepath.Join(dir, "nonexistent"), filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, err := os.Stat(filepath.Join(dir, "dst")); !os.IsNotExist(err) {
		t.Fatalf("dst should not exist: %v", err)
	}
}

func TestEnsureDirs(t *testing.T) {
	root := t.TempDir()
	if err := EnsureDirs(root, "assets/og", "fixes"); err != nil {
		t.Fatal(err)
	}
	for _, dir := range []string{"assets", "assets/og", "fixes"} {
		info, err := os.Stat(filepath.Join(root, dir))
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}

	blocker := filepath.Join(root, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureDirs(blocker, "child"); err == nil {
		t.Fatal("expected error when root is a file")
	}
}
