// Package manifest builds an OmniBOR manifest body from a set of dependency
// paths: one gitoid per successfully-opened dependency, sorted by hex, with
// an optional "bom" reference folded in from a note sidecar.
package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/quietloop/asdep/internal/gitoid"
	"github.com/quietloop/asdep/internal/notestore"
)

// DepRecord caches both hash-algorithm hexes for a single dependency path,
// so a path hashed for the SHA-1 manifest doesn't get reopened and rehashed
// when the SHA-256 manifest is built from the same registry.
type DepRecord struct {
	Name      string
	SHA1Hex   string
	SHA256Hex string
}

func (r *DepRecord) hex(algo gitoid.Algo) string {
	switch algo {
	case gitoid.SHA1:
		return r.SHA1Hex
	case gitoid.SHA256:
		return r.SHA256Hex
	default:
		return ""
	}
}

func (r *DepRecord) setHex(algo gitoid.Algo, hex string) {
	switch algo {
	case gitoid.SHA1:
		r.SHA1Hex = hex
	case gitoid.SHA256:
		r.SHA256Hex = hex
	}
}

// Cache holds one DepRecord per path, reused across algorithm passes. Unlike
// the casstore's directory-existence cache, this cache is never bounded or
// evicted: a dropped record would mean rehashing a dependency that already
// hashed successfully, silently inflating I/O rather than just costing one
// redundant syscall, so an LRU is the wrong tool here even though one is
// used a layer below for the directory-existence memoization.
type Cache struct {
	records []*DepRecord
	byName  map[string]*DepRecord
}

// NewCache returns an empty dep-record cache.
func NewCache() *Cache {
	return &Cache{byName: make(map[string]*DepRecord)}
}

func (c *Cache) getOrCreate(name string) *DepRecord {
	if r, ok := c.byName[name]; ok {
		return r
	}
	r := &DepRecord{Name: name}
	c.byName[name] = r
	c.records = append(c.records, r)
	return r
}

// Reset drops every cached record.
func (c *Cache) Reset() {
	c.records = nil
	c.byName = make(map[string]*DepRecord)
}

// Build computes the manifest body for algo over paths, using cache to avoid
// rehashing a path whose hex for this algo is already known, and notes to
// fold in "bom" references for dependencies that are themselves already
// content-addressed. It returns the raw manifest bytes and their own hex
// gitoid under the same algo.
func Build(algo gitoid.Algo, paths []string, cache *Cache, notes *notestore.Store) ([]byte, string, error) {
	for _, path := range paths {
		rec := cache.getOrCreate(path)
		if rec.hex(algo) != "" {
			continue
		}
		raw, err := gitoid.OfFile(algo, path)
		if err != nil {
			// Unreadable dependency: leave this algo's hex empty for this
			// record, which excludes it from the manifest below.
			continue
		}
		rec.setHex(algo, gitoid.Hex(raw))
	}

	included := make([]*DepRecord, 0, len(paths))
	for _, path := range paths {
		rec := cache.byName[path]
		if rec != nil && rec.hex(algo) != "" {
			included = append(included, rec)
		}
	}
	sort.SliceStable(included, func(i, j int) bool {
		return included[i].hex(algo) < included[j].hex(algo)
	})

	var body strings.Builder
	fmt.Fprintf(&body, "gitoid:blob:%s\n", algo)
	for _, rec := range included {
		hex := rec.hex(algo)
		body.WriteString("blob ")
		body.WriteString(hex)
		if notes != nil {
			if bomHex, ok := notes.Lookup(rec.Name, algo); ok {
				body.WriteString(" bom ")
				body.WriteString(bomHex)
			}
		}
		body.WriteByte('\n')
	}

	bodyBytes := []byte(body.String())
	raw, err := gitoid.OfBytes(algo, bodyBytes)
	if err != nil {
		return nil, "", err
	}
	return bodyBytes, gitoid.Hex(raw), nil
}
