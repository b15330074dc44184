// Package companyinfo serves the per-language company description used to
// ground general answers. Sources are tried as an ordered chain: the file for
// the requested language, the English file, then a built-in paragraph. The
// first source long enough wins and is cached for the process lifetime.
package companyinfo

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/saboothailand/support-bot/internal/domain"
)

var (
	// ErrNotFound is returned by a provider that has nothing for the language.
	ErrNotFound = errors.New("company info not found")
	// ErrInsufficient is returned when no provider in the chain produced
	// enough text.
	ErrInsufficient = errors.New("company info insufficient")
)

// DefaultInfo is the last link of the chain.
const DefaultInfo = "Welcome to SABOO THAILAND! We are Thailand's first natural fruit-shaped soap manufacturer since 2008. Contact: 02-159-9880."

// DefaultMinRunes is the shortest text accepted as company info.
const DefaultMinRunes = 20

// Warmed at startup.
var CommonLanguages = []domain.Language{domain.English, domain.Korean, domain.Thai, domain.Japanese, domain.Chinese}

var fileCodes = map[domain.Language]string{
	domain.Thai:       "th",
	domain.English:    "en",
	domain.Korean:     "kr",
	domain.Japanese:   "ja",
	domain.German:     "de",
	domain.Spanish:    "es",
	domain.Arabic:     "ar",
	domain.Chinese:    "zh_cn",
	domain.Vietnamese: "vi",
	domain.Russian:    "ru",
	domain.French:     "fr",
}

// FileName is the company info file for lang ("company_info_th.txt").
// Unknown languages map to the English file.
func FileName(lang domain.Language) string {
	code, ok := fileCodes[lang]
	if !ok {
		code = "en"
	}
	return "company_info_" + code + ".txt"
}

// Provider returns company info text for a language.
type Provider func(ctx context.Context, lang domain.Language) (string, error)

// FileProvider reads FileName(lang) from dir.
func FileProvider(fs afero.Fs, dir string) Provider {
	return func(_ context.Context, lang domain.Language) (string, error) {
		return readFile(fs, path.Join(dir, FileName(lang)))
	}
}

// EnglishFileProvider always reads the English file.
func EnglishFileProvider(fs afero.Fs, dir string) Provider {
	return func(_ context.Context, _ domain.Language) (string, error) {
		return readFile(fs, path.Join(dir, FileName(domain.English)))
	}
}

// Static always returns text.
func Static(text string) Provider {
	return func(context.Context, domain.Language) (string, error) { return text, nil }
}

// FirstSufficient tries providers in order and returns the first result with
// at least minRunes runes after trimming. Provider errors move on to the
// next link; when every link fails the result is ErrInsufficient.
func FirstSufficient(minRunes int, providers ...Provider) Provider {
	return func(ctx context.Context, lang domain.Language) (string, error) {
		var errs []error
		for _, p := range providers {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			text, err := p(ctx, lang)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			text = strings.TrimSpace(text)
			if utf8.RuneCountInString(text) < minRunes {
				continue
			}
			return text, nil
		}
		if len(errs) > 0 {
			return "", fmt.Errorf("%w: %w", ErrInsufficient, errors.Join(errs...))
		}
		return "", ErrInsufficient
	}
}

func readFile(fs afero.Fs, p string) (string, error) {
	b, err := afero.ReadFile(fs, p)
	if err != nil {
		if ok, _ := afero.Exists(fs, p); !ok {
			return "", fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return "", fmt.Errorf("read %s: %w", p, err)
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("read %s: invalid UTF-8", p)
	}
	return string(b), nil
}

// ----------------------------------------------------------------------------
// Cache

// Cache memoizes the chain per language. Concurrent misses for the same
// language share one load.
type Cache struct {
	chain Provider
	log   zerolog.Logger

	mu     sync.RWMutex
	byLang map[domain.Language]string
	group  singleflight.Group
}

// NewCache builds the standard chain over dir: language file, English file,
// DefaultInfo, each held to minRunes.
func NewCache(fs afero.Fs, dir string, minRunes int, lg zerolog.Logger) *Cache {
	if minRunes <= 0 {
		minRunes = DefaultMinRunes
	}
	chain := FirstSufficient(minRunes,
		FileProvider(fs, dir),
		EnglishFileProvider(fs, dir),
		Static(DefaultInfo),
	)
	return NewCacheWith(chain, lg)
}

// NewCacheWith wraps an arbitrary chain.
func NewCacheWith(chain Provider, lg zerolog.Logger) *Cache {
	return &Cache{
		chain:  chain,
		log:    lg.With().Str("component", "companyinfo").Logger(),
		byLang: make(map[domain.Language]string),
	}
}

// Get returns the cached text for lang, loading it on first use. Failures
// are not cached.
func (c *Cache) Get(ctx context.Context, lang domain.Language) (string, error) {
	c.mu.RLock()
	text, ok := c.byLang[lang]
	c.mu.RUnlock()
	if ok {
		return text, nil
	}

	v, err, _ := c.group.Do(string(lang), func() (any, error) {
		text, err := c.chain(ctx, lang)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.byLang[lang] = text
		c.mu.Unlock()
		c.log.Debug().Str("language", string(lang)).Int("runes", utf8.RuneCountInString(text)).Msg("company info loaded")
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Warm loads langs concurrently. It returns the first error, after every
// load has finished.
func (c *Cache) Warm(ctx context.Context, langs ...domain.Language) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, lang := range langs {
		g.Go(func() error {
			if _, err := c.Get(gctx, lang); err != nil {
				return fmt.Errorf("warm %s: %w", lang, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Languages lists the cached languages in sorted order.
func (c *Cache) Languages() []domain.Language {
	c.mu.RLock()
	out := make([]domain.Language, 0, len(c.byLang))
	for l := range c.byLang {
		out = append(out, l)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clear drops every cached language.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.byLang = make(map[domain.Language]string)
	c.mu.Unlock()
}
