package casstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quietloop/asdep/internal/gitoid"
)

func TestWrite_PlacesManifestAtExpectedPath(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}

	body := []byte("gitoid:blob:sha1\n")
	raw, err := gitoid.OfBytes(gitoid.SHA1, body)
	if err != nil {
		t.Fatal(err)
	}
	hexID := gitoid.Hex(raw)

	if err := s.Write(gitoid.SHA1, hexID, body); err != nil {
		t.Fatal(err)
	}

	want := filepath.Join(root, "objects", "gitoid_blob_sha1", hexID[:2], hexID[2:])
	got, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("expected manifest file at %s: %v", want, err)
	}
	if string(got) != string(body) {
		t.Fatalf("file contents = %q, want %q", got, body)
	}
}

func TestWrite_CreatesNestedRelativeRoot(t *testing.T) {
	dir := t.TempDir()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(oldwd)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	s, err := Open("a/b/c")
	if err != nil {
		t.Fatal(err)
	}

	body := []byte("gitoid:blob:sha256\n")
	raw, err := gitoid.OfBytes(gitoid.SHA256, body)
	if err != nil {
		t.Fatal(err)
	}
	hexID := gitoid.Hex(raw)

	if err := s.Write(gitoid.SHA256, hexID, body); err != nil {
		t.Fatal(err)
	}

	want := filepath.Join(dir, "a", "b", "c", "objects", "gitoid_blob_sha256", hexID[:2], hexID[2:])
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected file at %s: %v", want, err)
	}
}

func TestWrite_SingleComponentRelativeRoot(t *testing.T) {
	dir := t.TempDir()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(oldwd)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	s, err := Open("store")
	if err != nil {
		t.Fatal(err)
	}

	body := []byte("gitoid:blob:sha1\n")
	raw, _ := gitoid.OfBytes(gitoid.SHA1, body)
	hexID := gitoid.Hex(raw)

	if err := s.Write(gitoid.SHA1, hexID, body); err != nil {
		t.Fatalf("a bare single-component relative root must be creatable: %v", err)
	}
}

func TestWrite_OverwritesExistingManifest(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}

	body := []byte("gitoid:blob:sha1\n")
	raw, _ := gitoid.OfBytes(gitoid.SHA1, body)
	hexID := gitoid.Hex(raw)

	if err := s.Write(gitoid.SHA1, hexID, body); err != nil {
		t.Fatal(err)
	}
	if err := s.Write(gitoid.SHA1, hexID, body); err != nil {
		t.Fatalf("a second write of the same manifest must not fail: %v", err)
	}
}

func TestWrite_ReusesDirectoryAcrossCalls(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}

	for _, content := range []string{"gitoid:blob:sha1\nblob aaa\n", "gitoid:blob:sha1\nblob bbb\n"} {
		body := []byte(content)
		raw, _ := gitoid.OfBytes(gitoid.SHA1, body)
		hexID := gitoid.Hex(raw)
		if err := s.Write(gitoid.SHA1, hexID, body); err != nil {
			t.Fatal(err)
		}
	}
}

func TestWrite_UnknownAlgoErrors(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Write(gitoid.Algo(99), "aa", nil); err == nil {
		t.Fatal("expected an error for an unknown algorithm")
	}
}
