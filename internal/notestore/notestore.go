// Package notestore holds pre-existing OmniBOR identifiers for dependencies
// that are themselves already-built artifacts carrying their own
// ".note.omnibor" section — the "bom" references folded into manifest lines.
package notestore

import "github.com/quietloop/asdep/internal/gitoid"

// record pairs a dependency's path with whatever hex gitoids its own
// ".note.omnibor" section already carries. An empty string means absent.
type record struct {
	name      string
	sha1Hex   string
	sha256Hex string
}

// Store is an append-only list of note-section records, looked up by exact
// path equality.
//
// Lookup deliberately does not use the platform-aware comparison the
// dependency registry uses (see depreg.Registry): a note keyed under a
// differently-cased path than the one a dependency was registered with will
// not match on case-insensitive platforms. This mismatch is preserved
// intentionally rather than silently normalized — see SPEC_FULL.md §9 — so
// any collaborator wiring notes in must key them under exactly the same
// byte string the dependency was registered with.
type Store struct {
	records []record
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Add appends a note-section record. Either hex string may be empty,
// meaning that algorithm's gitoid is not known for this dependency.
func (s *Store) Add(path, sha1Hex, sha256Hex string) {
	s.records = append(s.records, record{name: path, sha1Hex: sha1Hex, sha256Hex: sha256Hex})
}

// Clear removes all records.
func (s *Store) Clear() {
	s.records = nil
}

// Lookup returns the hex gitoid recorded for path under algo, and whether
// one was found. Duplicates are allowed in the store; among the records
// sharing path, the first one that actually carries algo's hex wins — a
// record added for one algo (leaving the other hex empty) does not shadow
// a later record adding the hex Lookup is actually asked for.
func (s *Store) Lookup(path string, algo gitoid.Algo) (string, bool) {
	for _, r := range s.records {
		if r.name != path {
			continue
		}
		switch algo {
		case gitoid.SHA1:
			if r.sha1Hex != "" {
				return r.sha1Hex, true
			}
		case gitoid.SHA256:
			if r.sha256Hex != "" {
				return r.sha256Hex, true
			}
		}
	}
	return "", false
}
