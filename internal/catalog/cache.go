// Package catalog keeps the product files in memory. A load reads the whole
// directory into a fresh slice and swaps it in under a write lock, so
// readers see either the old catalog or the new one, never a partial one.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/saboothailand/support-bot/internal/domain"
	"github.com/saboothailand/support-bot/internal/observability"
)

// ErrDirNotFound is returned by Load when the catalog directory is absent.
// The previously loaded entries are kept.
var ErrDirNotFound = errors.New("catalog directory not found")

const (
	fileExt     = ".txt"
	priceSuffix = "_price"
	listSuffix  = "_list"
)

// Cache is the process-wide product catalog. The zero value is not usable;
// construct with New.
type Cache struct {
	fs  afero.Fs
	dir string
	log zerolog.Logger

	mu          sync.RWMutex
	entries     []domain.CatalogEntry
	lastUpdated time.Time
}

// New returns an empty cache over dir on fs.
func New(fs afero.Fs, dir string, lg zerolog.Logger) *Cache {
	return &Cache{fs: fs, dir: dir, log: lg.With().Str("component", "catalog").Logger()}
}

// Dir is the directory the cache reads from.
func (c *Cache) Dir() string { return c.dir }

// Load rebuilds the cache from the directory and returns how many entries
// were loaded. Unreadable, empty, non-UTF-8 or unrecognized files are logged
// and skipped; only a missing directory is an error.
func (c *Cache) Load(ctx context.Context) (int, error) {
	ok, err := afero.DirExists(c.fs, c.dir)
	if err != nil || !ok {
		c.log.Error().Str("dir", c.dir).Msg("catalog directory not found")
		return 0, fmt.Errorf("%w: %s", ErrDirNotFound, c.dir)
	}

	infos, err := afero.ReadDir(c.fs, c.dir)
	if err != nil {
		return 0, fmt.Errorf("read catalog dir: %w", err)
	}

	next := make([]domain.CatalogEntry, 0, len(infos))
	for _, fi := range infos {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		name := fi.Name()
		if fi.IsDir() || !strings.EqualFold(path.Ext(name), fileExt) {
			continue
		}
		ft, ok := FileTypeOf(name)
		if !ok {
			c.log.Warn().Str("file", name).Msg("catalog file has no _price/_list suffix; skipped")
			continue
		}
		b, err := afero.ReadFile(c.fs, path.Join(c.dir, name))
		if err != nil {
			c.log.Error().Err(err).Str("file", name).Msg("catalog file unreadable; skipped")
			continue
		}
		if !utf8.Valid(b) {
			c.log.Error().Str("file", name).Msg("catalog file is not valid UTF-8; skipped")
			continue
		}
		content := strings.TrimSpace(string(b))
		if content == "" {
			continue
		}
		next = append(next, domain.CatalogEntry{FileID: name, FileType: ft, Content: content})
	}

	now := time.Now().UTC()
	c.mu.Lock()
	c.entries = next
	c.lastUpdated = now
	c.mu.Unlock()

	observability.CatalogEntries.Set(float64(len(next)))
	c.log.Info().Int("count", len(next)).Str("dir", c.dir).Msg("catalog loaded")
	return len(next), nil
}

// Reload is Load; it exists so callers can say what they mean.
func (c *Cache) Reload(ctx context.Context) (int, error) { return c.Load(ctx) }

// Entries returns a copy of the cached entries in filename order.
func (c *Cache) Entries() []domain.CatalogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len is the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// LastUpdated is the time of the last successful load; ok is false before
// the first one.
func (c *Cache) LastUpdated() (t time.Time, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdated, !c.lastUpdated.IsZero()
}

// FileTypeOf derives the file type from the "_price"/"_list" suffix of a
// catalog filename (extension ignored, case-insensitive).
func FileTypeOf(name string) (domain.FileType, bool) {
	base := strings.ToLower(strings.TrimSuffix(name, path.Ext(name)))
	switch {
	case strings.HasSuffix(base, priceSuffix):
		return domain.FilePrice, true
	case strings.HasSuffix(base, listSuffix):
		return domain.FileList, true
	}
	return "", false
}
