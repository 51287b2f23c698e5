// Package tracker owns the process-wide state a real assembler's dependency
// subsystem would otherwise keep as globals: the path registry, the cached
// dependency records, and the note sidecar, bundled behind one value so a
// caller can hold exactly one per invocation (or one per test).
package tracker

import (
	"fmt"
	"os"

	"github.com/quietloop/asdep/internal/casstore"
	"github.com/quietloop/asdep/internal/depreg"
	"github.com/quietloop/asdep/internal/gitoid"
	"github.com/quietloop/asdep/internal/makerule"
	"github.com/quietloop/asdep/internal/manifest"
	"github.com/quietloop/asdep/internal/notestore"
)

// Logger is the minimal structured-logging surface Tracker needs. It is
// satisfied by *log.Logger from github.com/charmbracelet/log, which the CLI
// wires in; tests may pass a no-op implementation.
type Logger interface {
	Warnf(format string, args ...any)
}

// nopLogger discards every message. Used when New is called with a nil
// Logger so Tracker never has to nil-check before logging.
type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}

// Tracker is one assembler invocation's worth of dependency-tracking state.
// It is not safe for concurrent use; its owner calls its methods from a
// single goroutine, matching the single-threaded model the whole dependency
// subsystem assumes.
type Tracker struct {
	registry *depreg.Registry
	cache    *manifest.Cache
	notes    *notestore.Store
	log      Logger

	// store and storeRoot memoize the content-addressed writer across
	// writeOmnibor calls, so its directory-existence cache actually spans
	// the SHA-1 and SHA-256 writes (and repeated invocations against the
	// same root) instead of starting over empty on every call.
	store     *casstore.Store
	storeRoot string
}

// New returns a Tracker with empty state. A nil logger is replaced with one
// that discards every message.
func New(log Logger) *Tracker {
	if log == nil {
		log = nopLogger{}
	}
	return &Tracker{
		registry: depreg.New(),
		cache:    manifest.NewCache(),
		notes:    notestore.New(),
		log:      log,
	}
}

// StartDependencies sets the path a `make` rule will later be written to.
func (t *Tracker) StartDependencies(path string) {
	t.registry.StartDependencies(path)
}

// EnableOmnibor enables dependency retention even without a make-rule output.
func (t *Tracker) EnableOmnibor() {
	t.registry.EnableOmnibor()
}

// IsOmniborEnabled reports whether OmniBOR manifest computation was enabled.
func (t *Tracker) IsOmniborEnabled() bool {
	return t.registry.IsOmniborEnabled()
}

// RegisterDependency records path as an input the current output depends on.
// It is a no-op if neither a make-rule output nor OmniBOR tracking is active.
func (t *Tracker) RegisterDependency(path string) {
	t.registry.Register(path)
}

// PrintDependencies writes the make dependency rule for outFileName to the
// path set by StartDependencies. It is a no-op if that path was never set.
func (t *Tracker) PrintDependencies(outFileName string) error {
	path, ok := t.registry.DepOutputPath()
	if !ok {
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		t.log.Warnf("cannot open dependency file %q: %v", path, err)
		return nil
	}
	defer func() {
		if err := f.Close(); err != nil {
			t.log.Warnf("cannot close dependency file %q: %v", path, err)
		}
	}()

	if err := makerule.WriteRule(f, outFileName, t.registry.Paths()); err != nil {
		t.log.Warnf("cannot write dependency rule to %q: %v", path, err)
	}
	return nil
}

// AddNoteSection records pre-existing OmniBOR identifiers a collaborator
// already knows for path (for instance, an already-built ELF dependency
// carrying its own ".note.omnibor" section). Either hex may be empty.
func (t *Tracker) AddNoteSection(path, sha1Hex, sha256Hex string) {
	t.notes.Add(path, sha1Hex, sha256Hex)
}

// ClearNoteSections drops every recorded note-section entry.
func (t *Tracker) ClearNoteSections() {
	t.notes.Clear()
}

// ClearDeps drops the cached per-path gitoid records without touching the
// path registry itself.
func (t *Tracker) ClearDeps() {
	t.cache.Reset()
}

// WriteSHA1Omnibor builds the SHA-1 OmniBOR manifest over the currently
// registered dependencies, writes it into the content-addressed store
// rooted at resultRoot, and returns its hex gitoid. An empty string is
// returned on any failure.
func (t *Tracker) WriteSHA1Omnibor(resultRoot string) (string, error) {
	return t.writeOmnibor(gitoid.SHA1, resultRoot)
}

// WriteSHA256Omnibor is WriteSHA1Omnibor under SHA-256.
func (t *Tracker) WriteSHA256Omnibor(resultRoot string) (string, error) {
	return t.writeOmnibor(gitoid.SHA256, resultRoot)
}

func (t *Tracker) writeOmnibor(algo gitoid.Algo, resultRoot string) (string, error) {
	body, hexID, err := manifest.Build(algo, t.registry.Paths(), t.cache, t.notes)
	if err != nil {
		return "", fmt.Errorf("tracker: build %s manifest: %w", algo, err)
	}

	store, err := t.storeFor(resultRoot)
	if err != nil {
		return "", fmt.Errorf("tracker: open store at %q: %w", resultRoot, err)
	}
	if err := store.Write(algo, hexID, body); err != nil {
		return "", fmt.Errorf("tracker: write %s manifest: %w", algo, err)
	}
	return hexID, nil
}

// storeFor returns the content-addressed writer for resultRoot, opening a
// new one only when resultRoot differs from the root of the memoized one
// (or after Reset), so its directory-existence cache is reused across
// consecutive writes to the same root. Only the most recent root's writer is
// kept.
func (t *Tracker) storeFor(resultRoot string) (*casstore.Store, error) {
	if t.store != nil && t.storeRoot == resultRoot {
		return t.store, nil
	}
	store, err := casstore.Open(resultRoot)
	if err != nil {
		return nil, err
	}
	t.store = store
	t.storeRoot = resultRoot
	return store, nil
}

// Reset tears down all tracked state: the path registry, the dep-record
// cache, the note store, and the memoized content-addressed writer, as at
// process start.
func (t *Tracker) Reset() {
	t.registry.Reset()
	t.cache.Reset()
	t.notes.Clear()
	t.store = nil
	t.storeRoot = ""
}
