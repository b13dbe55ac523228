// Package store owns the on-disk directory of blip files: one markdown
// document per blip, frontmatter for metadata, body for content and notes.
//
// The store assumes a single local process owns the directory. Within that
// process each mutation is a complete read-modify-write-persist sequence;
// callers that may touch the same id concurrently must serialize those calls
// themselves. Crash safety comes from writing a temp file and renaming it
// over the target, which is the only durability guarantee provided.
package store

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/blip/internal/blip"
	"github.com/hpungsan/blip/internal/errors"
)

// FileExt is the extension used for blip documents.
const FileExt = ".md"

// Store is a file-per-blip persistence layer rooted at a single directory.
// Construct one at process start and pass it to every consumer.
type Store struct {
	dir string

	// summaryChars is the body slice length kept by the index.
	summaryChars int

	// now is stubbed in tests.
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithSummaryChars overrides the index summary length.
func WithSummaryChars(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.summaryChars = n
		}
	}
}

// New opens (creating if needed) a store at dir.
func New(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.NewPersistence("create store directory", err)
	}
	s := &Store{
		dir:          dir,
		summaryChars: 80,
		now:          func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the backing directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+FileExt)
}

// read loads and decodes a single blip. Missing or corrupt files report
// ok=false; read never fails hard so one bad record cannot poison callers.
func (s *Store) read(id string) (*blip.Blip, bool) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, false
	}
	b, err := Decode(string(data))
	if err != nil {
		return nil, false
	}
	return b, true
}

// write persists the full record crash-safely: serialize to a temp file in
// the same directory, fsync, then rename over the final name.
func (s *Store) write(b *blip.Blip) error {
	tmp, err := os.CreateTemp(s.dir, "."+b.ID+"-*.tmp")
	if err != nil {
		return errors.NewPersistence("create temp file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(Encode(b)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.NewPersistence("write blip", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.NewPersistence("sync blip", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.NewPersistence("close blip", err)
	}
	if err := os.Rename(tmpName, s.path(b.ID)); err != nil {
		os.Remove(tmpName)
		return errors.NewPersistence("rename blip", err)
	}
	return nil
}

// mutate applies fn to the stored record and persists the result.
// Returns (false, nil) when the id does not exist, and (false, err) only when
// fn rejects the mutation or persisting fails.
func (s *Store) mutate(id string, fn func(*blip.Blip) error) (bool, error) {
	b, ok := s.read(id)
	if !ok {
		return false, nil
	}
	if err := fn(b); err != nil {
		return false, err
	}
	if err := s.write(b); err != nil {
		return false, err
	}
	return true, nil
}

// touch refreshes last_updated. markSurfaced deliberately does not call it.
func (s *Store) touch(b *blip.Blip) {
	now := s.now()
	b.LastUpdatedAt = &now
}

// newID generates a fresh ULID.
func newID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
