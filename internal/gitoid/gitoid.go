// Package gitoid computes git-style blob object ids: the hash of
// "blob " <decimal length> NUL <contents>, under SHA-1 or SHA-256.
package gitoid

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
)

// Algo selects the hash function used to compute a gitoid.
type Algo int

const (
	// SHA1 produces a 20-byte (40 hex char) gitoid.
	SHA1 Algo = iota
	// SHA256 produces a 32-byte (64 hex char) gitoid.
	SHA256
)

// String returns the algorithm name as it appears in the OmniBOR manifest
// header and the content-addressed store's directory tag.
func (a Algo) String() string {
	switch a {
	case SHA1:
		return "sha1"
	case SHA256:
		return "sha256"
	default:
		return "unknown"
	}
}

// RawLen returns the number of raw hash bytes this algo produces.
func (a Algo) RawLen() int {
	switch a {
	case SHA1:
		return sha1.Size
	case SHA256:
		return sha256.Size
	default:
		return 0
	}
}

// HexLen returns the number of hex characters this algo's gitoid renders as.
func (a Algo) HexLen() int {
	return 2 * a.RawLen()
}

func newHash(algo Algo) (hash.Hash, error) {
	switch algo {
	case SHA1:
		return sha1.New(), nil
	case SHA256:
		return sha256.New(), nil
	default:
		return nil, fmt.Errorf("gitoid: unknown algorithm %d", algo)
	}
}

// OfBytes computes the git blob gitoid of data: the hash of
// "blob " + decimal(len(data)) + NUL + data, where the NUL terminating the
// header is itself part of the hashed bytes.
func OfBytes(algo Algo, data []byte) ([]byte, error) {
	h, err := newHash(algo)
	if err != nil {
		return nil, err
	}
	header := fmt.Sprintf("blob %d", len(data))
	// The NUL is written as its own byte, separate from header, to make
	// explicit that it is included in the hashed stream — mirroring the
	// original's strlen(init_data)+1 framing byte for byte.
	io.WriteString(h, header)
	h.Write([]byte{0})
	h.Write(data)
	return h.Sum(nil), nil
}

// OfFile computes the git blob gitoid of the file at path. The whole file
// is read into memory, matching the original's seek-to-end/seek-to-start
// sizing followed by a single fread.
func OfFile(algo Algo, path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, err
	}
	return OfBytes(algo, data)
}

// Hex renders raw gitoid bytes as lowercase hex.
func Hex(raw []byte) string {
	return hex.EncodeToString(raw)
}
