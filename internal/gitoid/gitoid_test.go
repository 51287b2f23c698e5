package gitoid

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOfBytes_EmptyInput(t *testing.T) {
	// git hash-object of an empty blob is a well-known constant.
	raw, err := OfBytes(SHA1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := Hex(raw), "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"; got != want {
		t.Fatalf("OfBytes(SHA1, nil) = %s, want %s", got, want)
	}
}

func TestOfBytes_ManifestHeaderKnownVector(t *testing.T) {
	// The SHA-1 gitoid of the bare "gitoid:blob:sha1\n" header line, as
	// hashed for an empty-registry manifest (scenario S1).
	raw, err := OfBytes(SHA1, []byte("gitoid:blob:sha1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := Hex(raw), "daa8845467f5d281d4d233a69af67b85dd50f9f0"; got != want {
		t.Fatalf("OfBytes(SHA1, header) = %s, want %s", got, want)
	}
}

func TestOfBytes_SingleByte(t *testing.T) {
	raw, err := OfBytes(SHA256, []byte("A"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := len(raw), SHA256.RawLen(); got != want {
		t.Fatalf("raw length = %d, want %d", got, want)
	}
	if got, want := len(Hex(raw)), SHA256.HexLen(); got != want {
		t.Fatalf("hex length = %d, want %d", got, want)
	}
}

func TestOfFile_MatchesOfBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.s")
	contents := []byte("A")
	if err := os.WriteFile(path, contents, 0o600); err != nil {
		t.Fatal(err)
	}

	fileRaw, err := OfFile(SHA256, path)
	if err != nil {
		t.Fatal(err)
	}
	bytesRaw, err := OfBytes(SHA256, contents)
	if err != nil {
		t.Fatal(err)
	}
	if Hex(fileRaw) != Hex(bytesRaw) {
		t.Fatalf("OfFile = %s, OfBytes = %s", Hex(fileRaw), Hex(bytesRaw))
	}
}

func TestOfFile_ZeroLengthIsLegal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.s")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	raw, err := OfFile(SHA1, path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := Hex(raw), "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"; got != want {
		t.Fatalf("zero-length file gitoid = %s, want %s", got, want)
	}
}

func TestOfFile_MissingFileErrors(t *testing.T) {
	if _, err := OfFile(SHA1, filepath.Join(t.TempDir(), "missing.s")); err == nil {
		t.Fatal("expected an error opening a missing file")
	}
}

func TestAlgo_Lengths(t *testing.T) {
	if SHA1.RawLen() != 20 || SHA1.HexLen() != 40 {
		t.Fatalf("SHA1 lengths wrong: raw=%d hex=%d", SHA1.RawLen(), SHA1.HexLen())
	}
	if SHA256.RawLen() != 32 || SHA256.HexLen() != 64 {
		t.Fatalf("SHA256 lengths wrong: raw=%d hex=%d", SHA256.RawLen(), SHA256.HexLen())
	}
}
