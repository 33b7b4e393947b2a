// Package cache stores lint reports on disk keyed by patch content and
// linter configuration.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/sprite-ai/patchlint/internal/lint"
	"github.com/sprite-ai/patchlint/internal/model"
)

// Bump when the payload layout or any check's behavior changes.
const schemaVersion uint16 = 1

// Key identifies one cached report.
type Key [sha256.Size]byte

func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// KeyFor derives the cache key from the patch name, its text and every
// option that influences the report.
func KeyFor(name, text string, opts lint.Options) Key {
	h := sha256.New()
	write := func(parts ...string) {
		for _, p := range parts {
			h.Write([]byte(p))
			h.Write([]byte{0})
		}
	}

	write(fmt.Sprintf("v%d", schemaVersion), name, text)
	// lists are length-prefixed so entries cannot shift between fields
	write(strconv.Itoa(len(opts.Branding.OldTerms)))
	write(opts.Branding.OldTerms...)
	write(opts.Branding.Replacement, opts.Branding.FileFilter)
	write(strconv.Itoa(len(opts.CommentPrefixes)))
	write(opts.CommentPrefixes...)
	skip := append([]string(nil), opts.Skip...)
	sort.Strings(skip)
	write(strings.Join(skip, ","))

	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

// Payload is the on-disk form of a report.
type Payload struct {
	Schema  uint16
	Issues  []IssuePayload
	Files   int
	Added   int
	Deleted int
}

// IssuePayload is the on-disk form of an issue.
type IssuePayload struct {
	Check    string
	Kind     uint8
	Line     int
	Message  string
	Severity uint8
}

// DiskCache keeps payloads under a directory. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Open returns a cache rooted at dir, creating it if needed.
func Open(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// DefaultDir returns $XDG_CACHE_HOME/patchlint or ~/.cache/patchlint.
func DefaultDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "patchlint"), nil
}

func (c *DiskCache) pathFor(key Key) string {
	return filepath.Join(c.dir, "reports", key.String()+".mp")
}

// Put stores the report under key. The write is atomic.
func (c *DiskCache) Put(key Key, r model.FileReport) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(toPayload(r)); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get loads the report stored under key into r, keeping r's Path and Name.
// Entries written by another schema version count as misses.
func (c *DiskCache) Get(key Key, r *model.FileReport) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var p Payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return false, fmt.Errorf("decoding cache entry %s: %w", key, err)
	}
	if p.Schema != schemaVersion {
		return false, nil
	}
	fromPayload(p, r)
	return true, nil
}

// Clear removes every cached report.
func (c *DiskCache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "reports"))
}

func toPayload(r model.FileReport) *Payload {
	p := &Payload{
		Schema:  schemaVersion,
		Files:   r.Stats.Files,
		Added:   r.Stats.Added,
		Deleted: r.Stats.Deleted,
	}
	for _, i := range r.Issues {
		p.Issues = append(p.Issues, IssuePayload{
			Check:    i.Check,
			Kind:     uint8(i.Kind),
			Line:     i.Line,
			Message:  i.Message,
			Severity: uint8(i.Severity),
		})
	}
	return p
}

func fromPayload(p Payload, r *model.FileReport) {
	r.Stats = model.DiffStats{Files: p.Files, Added: p.Added, Deleted: p.Deleted}
	r.Issues = nil
	for _, i := range p.Issues {
		r.Issues = append(r.Issues, model.Issue{
			Check:    i.Check,
			Kind:     model.IssueKind(i.Kind),
			Line:     i.Line,
			Message:  i.Message,
			Severity: model.Severity(i.Severity),
		})
	}
}
