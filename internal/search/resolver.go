// Package search ranks catalog files against a customer message.
//
// The resolver is deterministic and holds no mutable state:
//
//   - Entries are gated on the file type the intent implies (price or list).
//   - Localized product words resolve to canonical ids through the keyword
//     table before scoring, so "มะม่วง" and "mango" score the same.
//   - A specific product named in the filename outweighs any number of
//     generic category matches.
//   - Ties keep catalog order (stable sort); only score > 0 is returned.
package search

import (
	"path"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/saboothailand/support-bot/internal/domain"
	"github.com/saboothailand/support-bot/internal/intent"
	"github.com/saboothailand/support-bot/internal/keywords"
)

// ----------------------------------------------------------------------------
// Options

type Option func(*config)

type config struct {
	limit          int
	specificWeight int
	genericWeight  int
	contentWeight  int
	minTokenRunes  int
}

func defaultConfig() config {
	return config{
		limit:          5,
		specificWeight: 12,
		genericWeight:  2,
		contentWeight:  1,
		minTokenRunes:  3,
	}
}

// WithLimit caps the number of matches returned.
func WithLimit(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.limit = n
		}
	}
}

// withWeights overrides the filename and content weights. The specific
// weight must stay above the generic one; invalid combinations are ignored.
func withWeights(specific, generic, content int) Option {
	return func(c *config) {
		if specific > generic && generic > 0 && content >= 0 {
			c.specificWeight, c.genericWeight, c.contentWeight = specific, generic, content
		}
	}
}

// ----------------------------------------------------------------------------
// Resolver

// Resolver scores catalog entries for a message. Safe for concurrent use.
type Resolver struct {
	cfg        config
	table      *keywords.Table
	classifier *intent.Classifier
	intentWord map[string]struct{}
}

// NewResolver builds a resolver over t (the embedded table when nil).
func NewResolver(t *keywords.Table, opts ...Option) *Resolver {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	c := intent.New(t)
	words := make(map[string]struct{})
	for _, in := range []domain.Intent{domain.IntentPrice, domain.IntentList, domain.IntentFeature, domain.IntentMoreInfo} {
		for _, p := range c.Table.Phrases(in) {
			for _, w := range keywords.Tokens(p) {
				words[w] = struct{}{}
			}
		}
	}
	return &Resolver{cfg: cfg, table: c.Table, classifier: c, intentWord: words}
}

// classifyAndRank classifies text as English and ranks entries for it.
func (r *Resolver) classifyAndRank(text string, entries []domain.CatalogEntry) []domain.ScoredMatch {
	return r.Rank(text, r.classifier.Classify(text, domain.English), entries)
}

// Rank scores entries for an already classified message. A message with no
// product keyword yields nothing.
func (r *Resolver) Rank(text string, cls intent.Result, entries []domain.CatalogEntry) []domain.ScoredMatch {
	if !cls.ProductCandidate || len(entries) == 0 {
		return nil
	}
	target := cls.TargetType()
	extra := r.extraTokens(text, cls.Products)

	out := make([]domain.ScoredMatch, 0, min(r.cfg.limit*2, len(entries)))
	for _, e := range entries {
		if e.FileType != target {
			continue
		}
		score, matched := r.score(e, cls.Products, extra)
		if score <= 0 {
			continue
		}
		out = append(out, domain.ScoredMatch{Entry: e, Score: score, MatchedKeywords: matched})
	}
	if len(out) == 0 {
		return nil
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	if len(out) > r.cfg.limit {
		out = out[:r.cfg.limit]
	}
	return out
}

func (r *Resolver) score(e domain.CatalogEntry, hits []keywords.Hit, extra []string) (int, []string) {
	names := filenameTerms(e.FileID)
	content := strings.ToLower(e.Content)

	score := 0
	var matched []string
	for _, h := range hits {
		weight := r.cfg.genericWeight
		if h.Kind == keywords.Specific {
			weight = r.cfg.specificWeight
		}
		switch {
		case r.inFilename(h, names):
			score += weight
			matched = append(matched, h.ID)
		case r.cfg.contentWeight > 0 && r.inContent(h, content):
			score += r.cfg.contentWeight
			matched = append(matched, h.ID)
		}
	}
	if r.cfg.contentWeight > 0 {
		for _, w := range extra {
			if strings.Contains(content, w) {
				score += r.cfg.contentWeight
				matched = append(matched, w)
			}
		}
	}
	return score, matched
}

// inFilename matches the canonical id, or any ASCII synonym with its spaces
// removed, against the filename terms.
func (r *Resolver) inFilename(h keywords.Hit, names map[string]struct{}) bool {
	if _, ok := names[h.ID]; ok {
		return true
	}
	for _, p := range r.table.Products() {
		if p.ID != h.ID {
			continue
		}
		for _, t := range p.Terms {
			if !isASCII(t) {
				continue
			}
			if _, ok := names[strings.ReplaceAll(t, " ", "")]; ok {
				return true
			}
		}
		break
	}
	return false
}

func (r *Resolver) inContent(h keywords.Hit, content string) bool {
	if strings.Contains(content, h.ID) {
		return true
	}
	return h.Term != "" && strings.Contains(content, h.Term)
}

// extraTokens are the query words that say something beyond the product
// hits: long enough, not stopwords, not intent phrasing.
func (r *Resolver) extraTokens(text string, hits []keywords.Hit) []string {
	used := make(map[string]struct{}, len(hits)*2)
	for _, h := range hits {
		used[h.ID] = struct{}{}
		for _, w := range keywords.Tokens(h.Term) {
			used[w] = struct{}{}
		}
	}
	var out []string
	seen := make(map[string]struct{})
	for _, w := range keywords.Tokens(text) {
		if utf8.RuneCountInString(w) < r.cfg.minTokenRunes || r.table.IsStopword(w) {
			continue
		}
		if _, ok := r.intentWord[w]; ok {
			continue
		}
		if _, ok := used[w]; ok {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// ----------------------------------------------------------------------------
// Helpers

// filenameTerms splits a catalog filename into lower-case parts and adds each
// adjacent pair joined, so "bath_bomb_list.txt" yields "bathbomb" as well.
func filenameTerms(fileID string) map[string]struct{} {
	base := strings.ToLower(strings.TrimSuffix(fileID, path.Ext(fileID)))
	parts := strings.FieldsFunc(base, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' '
	})
	out := make(map[string]struct{}, len(parts)*2)
	for i, p := range parts {
		out[p] = struct{}{}
		if i > 0 {
			out[parts[i-1]+p] = struct{}{}
		}
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
