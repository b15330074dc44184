package keywords

import (
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/saboothailand/support-bot/internal/domain"
)

func TestDefault_ParsesEmbeddedTables(t *testing.T) {
	tb := Default()
	for _, in := range []domain.Intent{domain.IntentPrice, domain.IntentList, domain.IntentFeature, domain.IntentMoreInfo} {
		if len(tb.Phrases(in)) == 0 {
			t.Fatalf("intent %q has no phrases", in)
		}
	}
	if got := tb.PhrasesFor(domain.IntentMoreInfo, domain.Thai); len(got) == 0 || got[0] != "รายละเอียดเพิ่มเติม" {
		t.Fatalf("thai more-info phrases unexpected: %v", got)
	}
	if len(tb.Products()) == 0 {
		t.Fatalf("no products parsed")
	}
	if !tb.IsStopword("the") || tb.IsStopword("mango") {
		t.Fatalf("stopword lookup wrong")
	}
}

func TestFindProducts_CrossLanguageSynonyms(t *testing.T) {
	tb := Default()
	cases := []struct {
		in   string
		want string
	}{
		{"mango soap", "mango"},
		{"ราคาสบู่มะม่วง", "mango"},
		{"망고 비누", "mango"},
		{"マンゴー石鹸", "mango"},
		{"芒果香皂", "mango"},
		{"мыло манго", "mango"},
		{"Bath Bomb please", "bathbomb"},
		{"ช้าง", "elephant"},
	}
	for _, tc := range cases {
		hits := tb.FindProducts(tc.in)
		found := false
		for _, h := range hits {
			if h.ID == tc.want {
				found = true
			}
		}
		if !found {
			t.Fatalf("FindProducts(%q) = %+v; want id %q", tc.in, hits, tc.want)
		}
	}
}

func TestFindProducts_PlainWordsMatchWholeTokens(t *testing.T) {
	tb := Default()
	for _, h := range tb.FindProducts("the 250ml spray") {
		if h.ID == "25ml" {
			t.Fatalf("25ml must not match inside 250ml: %+v", h)
		}
	}
	if hits := tb.FindProducts("angel settings"); len(hits) != 0 {
		t.Fatalf("expected no product hits, got %+v", hits)
	}
	hits := tb.FindProducts("soap 100 g")
	ids := map[string]Kind{}
	for _, h := range hits {
		ids[h.ID] = h.Kind
	}
	if ids["soap"] != Generic || ids["100g"] != Size {
		t.Fatalf("unexpected hits: %+v", hits)
	}
}

func TestFindProducts_Plurals(t *testing.T) {
	tb := Default()
	for text, want := range map[string]string{
		"how much are your soaps": "soap",
		"do you sell scrubs":      "scrub",
		"any perfumes?":           "perfume",
		"gifts for my mom":        "gift",
		"two 25mls please":        "25ml",
	} {
		found := false
		for _, h := range tb.FindProducts(text) {
			if h.ID == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("FindProducts(%q) missed %s", text, want)
		}
	}
	for _, h := range tb.FindProducts("soapstone and 250mls") {
		if h.ID == "soap" || h.ID == "25ml" {
			t.Fatalf("plural rule must not widen to prefixes: %+v", h)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	goodProducts := []byte("products:\n  - {id: mango, kind: specific, terms: [mango]}\n")
	goodIntents := []byte("intents:\n  price:\n    english: [price]\n")

	if _, err := Parse([]byte("intents:\n  shopping:\n    english: [buy]\n"), goodProducts); !errors.Is(err, ErrUnknownIntent) {
		t.Fatalf("want ErrUnknownIntent, got %v", err)
	}
	if _, err := Parse([]byte("intents:\n  price:\n    klingon: [qap]\n"), goodProducts); !errors.Is(err, ErrUnknownLanguage) {
		t.Fatalf("want ErrUnknownLanguage, got %v", err)
	}
	if _, err := Parse(goodIntents, []byte("products:\n  - {id: x, kind: weird, terms: [x]}\n")); !errors.Is(err, ErrInvalidProduct) {
		t.Fatalf("want ErrInvalidProduct for kind, got %v", err)
	}
	if _, err := Parse(goodIntents, []byte("products:\n  - {id: x, kind: generic, terms: []}\n")); !errors.Is(err, ErrInvalidProduct) {
		t.Fatalf("want ErrInvalidProduct for empty terms, got %v", err)
	}
	dup := []byte("products:\n  - {id: x, kind: generic, terms: [x]}\n  - {id: X, kind: generic, terms: [y]}\n")
	if _, err := Parse(goodIntents, dup); !errors.Is(err, ErrInvalidProduct) {
		t.Fatalf("want ErrInvalidProduct for duplicate, got %v", err)
	}
	if _, err := Parse([]byte("intents: [oops"), goodProducts); err == nil {
		t.Fatalf("want yaml error")
	}
}

func TestLoad_OverridesFromFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/kw/products.yaml", []byte("products:\n  - {id: kiwi, kind: specific, terms: [Kiwi, 키위]}\n"), 0o644)

	tb, err := Load(fs, "", "/kw/products.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tb.Products()) != 1 || tb.Products()[0].Terms[0] != "kiwi" {
		t.Fatalf("override not applied or not normalized: %+v", tb.Products())
	}
	if len(tb.Phrases(domain.IntentPrice)) == 0 {
		t.Fatalf("intents should fall back to embedded default")
	}

	if _, err := Load(fs, "/kw/missing.yaml", ""); err == nil {
		t.Fatalf("expected read error for missing file")
	}
}

func TestContainsAny_CaseInsensitive(t *testing.T) {
	if p, ok := ContainsAny("HOW MUCH is it", []string{"price", "how much"}); !ok || p != "how much" {
		t.Fatalf("ContainsAny = %q,%v", p, ok)
	}
	if _, ok := ContainsAny("hello", nil); ok {
		t.Fatalf("nil phrases must not match")
	}
}
