package search

import (
	"testing"

	"github.com/saboothailand/support-bot/internal/domain"
	"github.com/saboothailand/support-bot/internal/keywords"
)

func entry(id string, ft domain.FileType, content string) domain.CatalogEntry {
	return domain.CatalogEntry{FileID: id, FileType: ft, Content: content}
}

func sampleCatalog() []domain.CatalogEntry {
	return []domain.CatalogEntry{
		entry("soap_price.txt", domain.FilePrice, "All soaps | 100g | 40 THB"),
		entry("mango_soap_price.txt", domain.FilePrice, "Mango Soap | 100g | 45 THB"),
		entry("lavender_soap_price.txt", domain.FilePrice, "Lavender Soap | 100g | 50 THB"),
		entry("mango_soap_list.txt", domain.FileList, "Mango Soap\nMango Soap Mini"),
		entry("elephant_soap_list.txt", domain.FileList, "Elephant Soap 100g - ฿45"),
		entry("bath_bomb_list.txt", domain.FileList, "Duck bath bomb\nBear bath bomb"),
	}
}

// ---------- Options ----------
func TestOptionsAndDefaults(t *testing.T) {
	def := defaultConfig()
	if def.limit != 5 || def.specificWeight <= def.genericWeight {
		t.Fatalf("defaultConfig unexpected: %#v", def)
	}

	cfg := def
	WithLimit(2)(&cfg)
	WithLimit(0)(&cfg) // no-op
	if cfg.limit != 2 {
		t.Fatalf("WithLimit failed: %d", cfg.limit)
	}
	withWeights(1, 5, 1)(&cfg) // specific must dominate: ignored
	if cfg.specificWeight != def.specificWeight {
		t.Fatalf("invalid weights should be ignored")
	}
	withWeights(20, 3, 0)(&cfg)
	if cfg.specificWeight != 20 || cfg.genericWeight != 3 || cfg.contentWeight != 0 {
		t.Fatalf("WithWeights failed: %#v", cfg)
	}
}

// ---------- Ranking ----------
func TestSearch_SpecificBeatsGeneric(t *testing.T) {
	r := NewResolver(nil)
	got := r.classifyAndRank("mango soap price", sampleCatalog())
	if len(got) == 0 {
		t.Fatalf("no matches")
	}
	if got[0].Entry.FileID != "mango_soap_price.txt" {
		t.Fatalf("top = %q; want mango_soap_price.txt", got[0].Entry.FileID)
	}
	var mango, generic int
	for _, m := range got {
		switch m.Entry.FileID {
		case "mango_soap_price.txt":
			mango = m.Score
		case "soap_price.txt":
			generic = m.Score
		}
	}
	if mango <= generic {
		t.Fatalf("mango %d must outrank generic soap %d", mango, generic)
	}
}

func TestSearch_TypeGating(t *testing.T) {
	r := NewResolver(nil)
	for _, q := range []string{"mango soap price", "how much is lavender soap", "ราคาสบู่"} {
		for _, m := range r.classifyAndRank(q, sampleCatalog()) {
			if m.Entry.FileType != domain.FilePrice {
				t.Fatalf("price query %q returned %s file %q", q, m.Entry.FileType, m.Entry.FileID)
			}
		}
	}
	for _, q := range []string{"elephant soap", "mango soap", "bath bomb"} {
		for _, m := range r.classifyAndRank(q, sampleCatalog()) {
			if m.Entry.FileType != domain.FileList {
				t.Fatalf("list query %q returned %s file %q", q, m.Entry.FileType, m.Entry.FileID)
			}
		}
	}
}

func TestSearch_ScenarioElephantList(t *testing.T) {
	got := NewResolver(nil).classifyAndRank("elephant soap", sampleCatalog())
	if len(got) == 0 || got[0].Entry.FileID != "elephant_soap_list.txt" {
		t.Fatalf("elephant not ranked first: %+v", got)
	}
	if got[0].Score < defaultConfig().specificWeight {
		t.Fatalf("elephant score %d lacks specific bonus", got[0].Score)
	}
}

func TestSearch_ThaiSynonymMapsToMango(t *testing.T) {
	got := NewResolver(nil).classifyAndRank("ราคาสบู่มะม่วง", sampleCatalog())
	if len(got) == 0 || got[0].Entry.FileID != "mango_soap_price.txt" {
		t.Fatalf("thai mango price query ranked %+v", got)
	}
	found := false
	for _, k := range got[0].MatchedKeywords {
		if k == "mango" {
			found = true
		}
	}
	if !found {
		t.Fatalf("matched keywords should carry canonical id: %v", got[0].MatchedKeywords)
	}
}

func TestSearch_JoinedFilenameParts(t *testing.T) {
	got := NewResolver(nil).classifyAndRank("do you have bath bombs", sampleCatalog())
	if len(got) == 0 || got[0].Entry.FileID != "bath_bomb_list.txt" {
		t.Fatalf("bath bomb query ranked %+v", got)
	}
}

func TestSearch_ScorePositiveSortedAndBounded(t *testing.T) {
	var cat []domain.CatalogEntry
	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		cat = append(cat, entry(n+"_soap_list.txt", domain.FileList, "soap"))
	}
	cat = append(cat, entry("mango_soap_list.txt", domain.FileList, "mango"))

	got := NewResolver(nil).classifyAndRank("mango soap", cat)
	if len(got) != 5 {
		t.Fatalf("len = %d; want 5", len(got))
	}
	if got[0].Entry.FileID != "mango_soap_list.txt" {
		t.Fatalf("top = %q", got[0].Entry.FileID)
	}
	for i, m := range got {
		if m.Score <= 0 {
			t.Fatalf("non-positive score at %d: %+v", i, m)
		}
		if i > 0 && got[i-1].Score < m.Score {
			t.Fatalf("not sorted at %d", i)
		}
	}
	// ties keep catalog order
	if got[1].Entry.FileID != "a_soap_list.txt" || got[2].Entry.FileID != "b_soap_list.txt" {
		t.Fatalf("ties not stable: %q, %q", got[1].Entry.FileID, got[2].Entry.FileID)
	}
}

func TestSearch_EmptyInputs(t *testing.T) {
	r := NewResolver(nil)
	if got := r.classifyAndRank("mango soap", nil); got != nil {
		t.Fatalf("empty catalog should yield nil, got %+v", got)
	}
	if got := r.classifyAndRank("where is your shop", sampleCatalog()); got != nil {
		t.Fatalf("no product keyword should yield nil, got %+v", got)
	}
	if got := r.classifyAndRank("grape soap price", []domain.CatalogEntry{entry("x_list.txt", domain.FileList, "grape")}); got != nil {
		t.Fatalf("only wrong-type entries should yield nil, got %+v", got)
	}
}

func TestSearch_ContentRecall(t *testing.T) {
	cat := []domain.CatalogEntry{
		entry("fruit_collection_list.txt", domain.FileList, "Peach soap\nGrape soap"),
		entry("flower_list.txt", domain.FileList, "Rose\nJasmine"),
	}
	got := NewResolver(nil).classifyAndRank("peach", cat)
	if len(got) != 1 || got[0].Entry.FileID != "fruit_collection_list.txt" {
		t.Fatalf("content recall failed: %+v", got)
	}
	if got[0].Score != defaultConfig().contentWeight {
		t.Fatalf("content-only score = %d", got[0].Score)
	}
}

func TestRank_CustomTableAndLimit(t *testing.T) {
	tb, err := keywords.Parse(
		[]byte("intents:\n  price:\n    english: [quote]\n"),
		[]byte("products:\n  - {id: widget, kind: specific, terms: [widget, gizmo]}\n"),
	)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	r := NewResolver(tb, WithLimit(1))
	cat := []domain.CatalogEntry{
		entry("widget_price.txt", domain.FilePrice, "Widget 10 USD"),
		entry("gizmo_price.txt", domain.FilePrice, "Gizmo 12 USD"),
	}
	got := r.classifyAndRank("quote for a gizmo", cat)
	if len(got) != 1 || r.cfg.limit != 1 {
		t.Fatalf("limit not applied: %+v", got)
	}
	if got[0].Entry.FileID != "widget_price.txt" && got[0].Entry.FileID != "gizmo_price.txt" {
		t.Fatalf("unexpected match %q", got[0].Entry.FileID)
	}
}

func TestFilenameTerms(t *testing.T) {
	got := filenameTerms("Bath_Bomb-duck.list.txt")
	for _, w := range []string{"bath", "bomb", "bathbomb", "duck", "bombduck", "list"} {
		if _, ok := got[w]; !ok {
			t.Fatalf("missing %q in %v", w, got)
		}
	}
}
