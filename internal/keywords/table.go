// Package keywords holds the multilingual phrase tables the classifier and the
// product resolver run on. The tables are data, not code: defaults are
// embedded YAML and either file can be replaced at startup.
package keywords

import (
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/saboothailand/support-bot/internal/domain"
)

//go:embed intents.yaml
var defaultIntents []byte

//go:embed products.yaml
var defaultProducts []byte

var (
	// ErrUnknownLanguage is returned when a table names a language outside domain.Languages.
	ErrUnknownLanguage = errors.New("keywords: unknown language")
	// ErrUnknownIntent is returned for intent keys other than price, list, feature, moreInfo.
	ErrUnknownIntent = errors.New("keywords: unknown intent")
	// ErrInvalidProduct is returned for a product without id/terms or with an unknown kind.
	ErrInvalidProduct = errors.New("keywords: invalid product")
)

// Kind ranks how much a product term says about which file is wanted.
type Kind string

const (
	Specific Kind = "specific"
	Generic  Kind = "generic"
	Size     Kind = "size"
)

// Product is a canonical product identifier with its localized terms.
type Product struct {
	ID    string   `yaml:"id"`
	Kind  Kind     `yaml:"kind"`
	Terms []string `yaml:"terms"`
}

// Hit is a product found in a message, with the term that triggered it.
type Hit struct {
	ID   string
	Kind Kind
	Term string
}

// Table is the parsed phrase data. It is immutable after construction and
// safe for concurrent use.
type Table struct {
	intents   map[domain.Intent]map[domain.Language][]string
	flat      map[domain.Intent][]string
	products  []Product
	stopwords map[string]struct{}
}

type intentsDoc struct {
	Intents   map[domain.Intent]map[domain.Language][]string `yaml:"intents"`
	Stopwords []string                                       `yaml:"stopwords"`
}

type productsDoc struct {
	Products []Product `yaml:"products"`
}

// Default returns the embedded tables. It panics if they do not parse,
// which only a broken build can cause.
func Default() *Table {
	t, err := Parse(defaultIntents, defaultProducts)
	if err != nil {
		panic(err)
	}
	return t
}

// Load reads intent and product tables from fs. An empty path keeps the
// embedded default for that half.
func Load(fs afero.Fs, intentsPath, productsPath string) (*Table, error) {
	ib, pb := defaultIntents, defaultProducts
	if intentsPath != "" {
		b, err := afero.ReadFile(fs, intentsPath)
		if err != nil {
			return nil, fmt.Errorf("read intents %s: %w", intentsPath, err)
		}
		ib = b
	}
	if productsPath != "" {
		b, err := afero.ReadFile(fs, productsPath)
		if err != nil {
			return nil, fmt.Errorf("read products %s: %w", productsPath, err)
		}
		pb = b
	}
	return Parse(ib, pb)
}

// Parse builds a Table from the two YAML documents. Phrases are lower-cased
// and trimmed; empty phrases are dropped.
func Parse(intentsYAML, productsYAML []byte) (*Table, error) {
	var idoc intentsDoc
	if err := yaml.Unmarshal(intentsYAML, &idoc); err != nil {
		return nil, fmt.Errorf("parse intents: %w", err)
	}
	var pdoc productsDoc
	if err := yaml.Unmarshal(productsYAML, &pdoc); err != nil {
		return nil, fmt.Errorf("parse products: %w", err)
	}

	t := &Table{
		intents:   make(map[domain.Intent]map[domain.Language][]string, len(idoc.Intents)),
		flat:      make(map[domain.Intent][]string, len(idoc.Intents)),
		stopwords: make(map[string]struct{}, len(idoc.Stopwords)),
	}
	for intent, byLang := range idoc.Intents {
		switch intent {
		case domain.IntentPrice, domain.IntentList, domain.IntentFeature, domain.IntentMoreInfo:
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownIntent, intent)
		}
		m := make(map[domain.Language][]string, len(byLang))
		for lang, phrases := range byLang {
			if !lang.Valid() {
				return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
			}
			m[lang] = normalize(phrases)
		}
		t.intents[intent] = m
		// flattened in detector order so matches are deterministic
		for _, lang := range domain.Languages {
			t.flat[intent] = append(t.flat[intent], m[lang]...)
		}
	}
	for _, w := range normalize(idoc.Stopwords) {
		t.stopwords[w] = struct{}{}
	}

	seen := make(map[string]struct{}, len(pdoc.Products))
	for _, p := range pdoc.Products {
		p.ID = strings.ToLower(strings.TrimSpace(p.ID))
		p.Terms = normalize(p.Terms)
		if p.ID == "" || len(p.Terms) == 0 {
			return nil, fmt.Errorf("%w: %q has no id or terms", ErrInvalidProduct, p.ID)
		}
		switch p.Kind {
		case Specific, Generic, Size:
		default:
			return nil, fmt.Errorf("%w: %q has kind %q", ErrInvalidProduct, p.ID, p.Kind)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidProduct, p.ID)
		}
		seen[p.ID] = struct{}{}
		t.products = append(t.products, p)
	}
	return t, nil
}

// Phrases returns every phrase for intent across all languages.
func (t *Table) Phrases(intent domain.Intent) []string { return t.flat[intent] }

// PhrasesFor returns the phrases for intent in one language.
func (t *Table) PhrasesFor(intent domain.Intent, lang domain.Language) []string {
	return t.intents[intent][lang]
}

// Products returns the product vocabulary in table order.
func (t *Table) Products() []Product { return t.products }

// IsStopword reports whether w (lower-case) carries no product meaning.
func (t *Table) IsStopword(w string) bool {
	_, ok := t.stopwords[w]
	return ok
}

// FindProducts returns every product mentioned in text, one hit per id, in
// table order. Plain ASCII single-word terms must match a whole token, or
// its "s"/"es" plural, so "25ml" does not fire on "250ml" while "soaps"
// still finds soap; everything else is a substring test.
func (t *Table) FindProducts(text string) []Hit {
	lower := strings.ToLower(text)
	toks := TokenSet(lower)
	var out []Hit
	for _, p := range t.products {
		for _, term := range p.Terms {
			if matchTerm(lower, toks, term) {
				out = append(out, Hit{ID: p.ID, Kind: p.Kind, Term: term})
				break
			}
		}
	}
	return out
}

// ContainsAny reports the first phrase contained in text (case-insensitive).
func ContainsAny(text string, phrases []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if p != "" && strings.Contains(lower, p) {
			return p, true
		}
	}
	return "", false
}

var tokenRE = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Tokens splits lower-cased s into letter/digit runs.
func Tokens(s string) []string {
	return tokenRE.FindAllString(strings.ToLower(s), -1)
}

// TokenSet is Tokens as a set.
func TokenSet(s string) map[string]struct{} {
	words := Tokens(s)
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}

func matchTerm(lower string, toks map[string]struct{}, term string) bool {
	if isPlainWord(term) {
		for _, w := range [...]string{term, term + "s", term + "es"} {
			if _, ok := toks[w]; ok {
				return true
			}
		}
		return false
	}
	return strings.Contains(lower, term)
}

// isPlainWord is true for ASCII letters/digits only, no spaces.
func isPlainWord(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return false
		}
	}
	return s != ""
}

func normalize(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
