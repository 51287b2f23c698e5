// Package casstore writes OmniBOR manifest bodies into an on-disk,
// content-addressed object store rooted at a caller-supplied directory,
// mirroring the fd-relative directory walk gas's own dependency tracker
// uses to build its result-root tree.
package casstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sys/unix"

	"github.com/quietloop/asdep/internal/gitoid"
)

// dirExistsCacheSize bounds the directory-existence memoization below. A
// cache miss only costs one redundant (and harmless, per this store's
// create-if-missing semantics) directory-creation attempt, so any capacity
// that fits comfortably in memory is a safe choice.
const dirExistsCacheSize = 4096

// Store writes manifests under a fixed result root.
type Store struct {
	root  string
	known *lru.Cache[string, struct{}]
}

// Open prepares a Store rooted at root. It does not itself touch the
// filesystem; directories are created lazily as manifests are written.
func Open(root string) (*Store, error) {
	known, err := lru.New[string, struct{}](dirExistsCacheSize)
	if err != nil {
		return nil, err
	}
	return &Store{root: root, known: known}, nil
}

// Write places body at <root>/objects/gitoid_blob_<algo>/<hex[:2]>/<hex[2:]>,
// creating every missing directory component along the way (mode 0700) and
// the final file with mode 0600. hexID must already be the gitoid of body
// under algo (the caller owns computing it, via gitoid.OfBytes).
func (s *Store) Write(algo gitoid.Algo, hexID string, body []byte) error {
	if algo.RawLen() == 0 {
		return fmt.Errorf("casstore: unknown algorithm")
	}
	if len(hexID) < 3 {
		return fmt.Errorf("casstore: gitoid hex too short: %q", hexID)
	}

	var handles []*os.File
	closeAll := func() {
		for i := len(handles) - 1; i >= 0; i-- {
			handles[i].Close()
		}
	}

	rootDir, rootPath, err := s.openRoot(&handles)
	if err != nil {
		closeAll()
		return err
	}

	subPath := filepath.Join("objects", "gitoid_blob_"+algo.String(), hexID[:2])
	dir, dirPath, err := s.descend(rootDir, rootPath, subPath, &handles)
	if err != nil {
		closeAll()
		return err
	}

	finalName := hexID[2:]
	dfd := int(dir.Fd())
	fd, err := unix.Openat(dfd, finalName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		closeAll()
		return fmt.Errorf("casstore: create %s/%s: %w", dirPath, finalName, err)
	}
	f := os.NewFile(uintptr(fd), filepath.Join(dirPath, finalName))
	if _, err := f.Write(body); err != nil {
		f.Close()
		closeAll()
		return fmt.Errorf("casstore: write %s/%s: %w", dirPath, finalName, err)
	}
	if err := f.Close(); err != nil {
		closeAll()
		return fmt.Errorf("casstore: close %s/%s: %w", dirPath, finalName, err)
	}

	closeAll()
	return nil
}

// openRoot opens (and, component by component, creates) the result root
// directory. An absolute root is walked with Mkdirat/Openat relative to a
// once-opened "/" file descriptor, matching the original's dirfd-chained
// absolute-path case; a relative root has no meaningful parent fd before
// its first component exists, so it is built incrementally with os.Mkdir.
func (s *Store) openRoot(handles *[]*os.File) (*os.File, string, error) {
	clean := collapseSlashes(s.root)
	if clean == "" {
		return nil, "", fmt.Errorf("casstore: empty result root")
	}

	if strings.HasPrefix(clean, "/") {
		root, err := os.Open("/")
		if err != nil {
			return nil, "", fmt.Errorf("casstore: open /: %w", err)
		}
		*handles = append(*handles, root)
		rest := strings.Trim(clean, "/")
		if rest == "" {
			return root, "/", nil
		}
		return s.descend(root, "/", rest, handles)
	}

	// Relative root: build incrementally so that even a bare single
	// component (no '/' at all) can be created, unlike the original's
	// dirfd-based walk which refuses a path with no separator at all.
	components := strings.Split(strings.TrimRight(clean, "/"), "/")
	path := ""
	for i, c := range components {
		if c == "" {
			continue
		}
		if path == "" {
			path = c
		} else {
			path = filepath.Join(path, c)
		}
		if err := os.Mkdir(path, 0o700); err != nil && !os.IsExist(err) {
			return nil, "", fmt.Errorf("casstore: mkdir %s: %w", path, err)
		}
		if i == len(components)-1 {
			dir, err := os.Open(path)
			if err != nil {
				return nil, "", fmt.Errorf("casstore: open %s: %w", path, err)
			}
			*handles = append(*handles, dir)
			return dir, path, nil
		}
	}
	return nil, "", fmt.Errorf("casstore: empty result root")
}

// descend opens (creating as needed) each "/"-separated component of sub,
// relative to parent's directory fd, tracking every opened handle.
func (s *Store) descend(parent *os.File, parentPath, sub string, handles *[]*os.File) (*os.File, string, error) {
	dir := parent
	path := parentPath
	for _, c := range strings.Split(collapseSlashes(sub), "/") {
		if c == "" {
			continue
		}
		path = filepath.Join(path, c)
		if !s.dirKnown(path) {
			if err := unix.Mkdirat(int(dir.Fd()), c, 0o700); err != nil && err != unix.EEXIST {
				return nil, "", fmt.Errorf("casstore: mkdirat %s: %w", path, err)
			}
			s.known.Add(path, struct{}{})
		}
		fd, err := unix.Openat(int(dir.Fd()), c, os.O_RDONLY, 0)
		if err != nil {
			return nil, "", fmt.Errorf("casstore: openat %s: %w", path, err)
		}
		next := os.NewFile(uintptr(fd), path)
		*handles = append(*handles, next)
		dir = next
	}
	return dir, path, nil
}

func (s *Store) dirKnown(path string) bool {
	_, ok := s.known.Get(path)
	return ok
}

func collapseSlashes(p string) string {
	var b strings.Builder
	lastWasSlash := false
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '/' {
			if lastWasSlash {
				continue
			}
			lastWasSlash = true
		} else {
			lastWasSlash = false
		}
		b.WriteByte(c)
	}
	return b.String()
}
