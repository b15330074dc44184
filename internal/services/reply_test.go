package services

import (
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"
)

func TestStripTags(t *testing.T) {
	in := `<b>Mango</b> soap <a href="x">link</a><br/>`
	if got := StripTags(in); got != "Mango soap link" {
		t.Fatalf("StripTags = %q", got)
	}
}

func TestCapLength_ShortUnchanged(t *testing.T) {
	short := "Mango soap is 45 THB. 😊"
	got, cut := CapLength(short, 500, "hint")
	if cut || got != short {
		t.Fatalf("short text changed: %q cut=%v", got, cut)
	}

	// the limit counts visible characters only
	tagged := "<b>" + strings.Repeat("a", 498) + "</b>"
	if got, cut := CapLength(tagged, 500, ""); cut || got != tagged {
		t.Fatalf("tags must not count toward the limit")
	}
}

func TestCapLength_LongCutAtWordBoundary(t *testing.T) {
	long := strings.Repeat("soap ", 200) // 1000 runes
	got, cut := CapLength(long, 500, "")
	if !cut {
		t.Fatalf("expected cut")
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("missing ellipsis: %q", got[len(got)-10:])
	}
	body := strings.TrimSuffix(got, "...")
	if n := utf8.RuneCountInString(body); n > 500 {
		t.Fatalf("visible length %d > 500", n)
	}
	if !strings.HasSuffix(body, "soap") {
		t.Fatalf("cut inside a word: %q", body[len(body)-8:])
	}

	// capping again within the limit plus ellipsis changes nothing
	again, _ := CapLength(got, 503, "")
	if again != got {
		t.Fatalf("second cap changed text")
	}
}

func TestCapLength_Hint(t *testing.T) {
	long := strings.Repeat("비누 ", 400)
	got, _ := CapLength(long, 500, "💬 더 알려주세요")
	if !strings.HasSuffix(got, "...\n\n💬 더 알려주세요") {
		t.Fatalf("hint not appended: %q", got[len(got)-40:])
	}
}

func TestCapLength_NoSpace(t *testing.T) {
	long := strings.Repeat("ก", 800)
	got, cut := CapLength(long, 0, "")
	if !cut || utf8.RuneCountInString(got) != DefaultMaxReplyRunes+3 {
		t.Fatalf("got %d runes", utf8.RuneCountInString(got))
	}
	for _, r := range strings.TrimSuffix(got, "...") {
		if unicode.IsSpace(r) {
			t.Fatalf("unexpected space")
		}
	}
}

func TestCapLength_WordEndingAtLimitKept(t *testing.T) {
	got, cut := CapLength("aaaa bbbb cccc", 9, "")
	if !cut || got != "aaaa bbbb..." {
		t.Fatalf("got %q", got)
	}
	got, _ = CapLength("aaaa bbbbb cccc", 9, "")
	if got != "aaaa..." {
		t.Fatalf("partial word kept: %q", got)
	}
}
