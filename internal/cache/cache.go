// Package cache stores check results on disk so unchanged files are not
// re-analyzed. Entries are msgpack files named by a key that covers the file
// path, its content hash and a fingerprint of everything else that can
// change the result: the settings, the rule set and the tool version.
package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/leapstack-labs/fortlint/pkg/lint"
)

// schemaVersion is bumped when Entry changes shape.
const schemaVersion uint16 = 1

// Key identifies one cached result.
type Key [sha256.Size]byte

// String returns the key in hex.
func (k Key) String() string { return hex.EncodeToString(k[:]) }

// Entry is the cached outcome of checking one file.
type Entry struct {
	Schema     uint16           `msgpack:"schema"`
	Violations []lint.Violation `msgpack:"violations"`
	Suppressed int              `msgpack:"suppressed"`
}

// Cache is a directory of entries. A nil *Cache is a valid, disabled cache.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open creates dir if needed. An empty dir disables caching and returns nil.
func Open(dir string) (*Cache, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	// Keep the cache out of version control.
	ignore := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(ignore); errors.Is(err, os.ErrNotExist) {
		_ = os.WriteFile(ignore, []byte("*\n"), 0o600)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// fingerprint is hashed into every key.
type fingerprint struct {
	Version  string         `msgpack:"version"`
	Settings *lint.Settings `msgpack:"settings"`
	Rules    lint.RuleSet   `msgpack:"rules"`
}

// Fingerprint summarizes the inputs shared by every file of a run.
func Fingerprint(version string, s *lint.Settings, rs lint.RuleSet) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(&fingerprint{Version: version, Settings: s, Rules: rs}); err != nil {
		return nil, fmt.Errorf("fingerprint settings: %w", err)
	}
	sum := sha256.Sum256(buf.Bytes())
	return sum[:], nil
}

// KeyFor derives the key of one file.
func KeyFor(fp []byte, path string, content [sha256.Size]byte) Key {
	h := sha256.New()
	h.Write(fp)
	h.Write([]byte(filepath.ToSlash(path)))
	h.Write([]byte{0})
	h.Write(content[:])
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

func (c *Cache) pathFor(key Key) string {
	s := key.String()
	return filepath.Join(c.dir, s[:2], s+".mp")
}

// Put serializes and writes an entry.
func (c *Cache) Put(key Key, e *Entry) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	e.Schema = schemaVersion
	if err := msgpack.NewEncoder(f).Encode(e); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Get reads an entry. A missing, unreadable or outdated entry is a miss.
func (c *Cache) Get(key Key) (*Entry, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		return nil, false
	}
	var e Entry
	if err := msgpack.Unmarshal(data, &e); err != nil || e.Schema != schemaVersion {
		return nil, false
	}
	return &e, true
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	var errs []error
	for _, e := range entries {
		if e.IsDir() {
			errs = append(errs, os.RemoveAll(filepath.Join(c.dir, e.Name())))
		}
	}
	return errors.Join(errs...)
}
