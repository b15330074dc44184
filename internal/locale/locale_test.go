package locale

import (
	"strings"
	"testing"

	"github.com/saboothailand/support-bot/internal/domain"
)

func TestTexts_FallbackToEnglish(t *testing.T) {
	tx := New("", "")
	if tx.Phone != DefaultPhone || tx.Contact != DefaultContact {
		t.Fatalf("defaults not applied: %+v", tx)
	}
	if got := tx.NoProducts(domain.Arabic); !strings.HasPrefix(got, "❌ Sorry") || !strings.Contains(got, DefaultPhone) {
		t.Fatalf("arabic no-products should fall back to english: %q", got)
	}
	if got := tx.NothingToElaborate(domain.Russian); !strings.Contains(got, "no previous conversation") {
		t.Fatalf("got %q", got)
	}
}

func TestTexts_Localized(t *testing.T) {
	tx := New("099-000-0000", "099-000-0000")
	if got := tx.Header(domain.FilePrice, domain.Thai); got != "💰 ราคาสินค้า:" {
		t.Fatalf("thai price header = %q", got)
	}
	if got := tx.Header(domain.FileList, domain.Korean); got != "🛍️ 제품 목록:" {
		t.Fatalf("korean list header = %q", got)
	}
	if got := tx.NoProducts(domain.Thai); !strings.Contains(got, "099-000-0000") || strings.Contains(got, "{phone}") {
		t.Fatalf("phone not substituted: %q", got)
	}
	if got := tx.ContactLine(domain.Korean); got != "📞 자세한 정보: 099-000-0000" {
		t.Fatalf("contact line = %q", got)
	}
	if !strings.Contains(tx.Fallback(), "099-000-0000") {
		t.Fatalf("fallback lacks phone")
	}
}

func TestMoreInfoHint_NoneForEnglish(t *testing.T) {
	tx := New("", "")
	if tx.MoreInfoHint(domain.English) != "" {
		t.Fatalf("english must not get a hint")
	}
	for _, l := range []domain.Language{domain.Thai, domain.Korean, domain.Japanese, domain.Chinese, domain.Russian} {
		if tx.MoreInfoHint(l) == "" {
			t.Fatalf("missing hint for %s", l)
		}
	}
}

func TestHeaders_CoverEveryLanguage(t *testing.T) {
	for _, l := range domain.Languages {
		if _, ok := priceHeaders[l]; !ok {
			t.Fatalf("no price header for %s", l)
		}
		if _, ok := listHeaders[l]; !ok {
			t.Fatalf("no list header for %s", l)
		}
		if _, ok := contactLabels[l]; !ok {
			t.Fatalf("no contact label for %s", l)
		}
	}
}
