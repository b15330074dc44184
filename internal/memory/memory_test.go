package memory

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/saboothailand/support-bot/internal/domain"
)

func TestRecord_BoundAndWindow(t *testing.T) {
	s := New(0, 0)
	for i := 1; i <= 5; i++ {
		s.Record("u1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i), domain.English)
	}
	s.Record("u2", "other", "answer", domain.Thai)

	got := s.Recent("u1")
	if len(got) != 2 || got[0].UserMessage != "q4" || got[1].UserMessage != "q5" {
		t.Fatalf("Recent = %+v; want q4,q5", got)
	}
	if n := len(s.turns["u1"]); n != 3 {
		t.Fatalf("stored %d turns; want 3", n)
	}
	if s.turns["u1"][0].UserMessage != "q3" {
		t.Fatalf("oldest stored = %q; want q3", s.turns["u1"][0].UserMessage)
	}
	if other := s.Recent("u2"); len(other) != 1 || other[0].Language != domain.Thai {
		t.Fatalf("u2 affected: %+v", other)
	}
}

func TestContext_Format(t *testing.T) {
	s := New(3, 2)
	if s.Context("nobody") != "" {
		t.Fatalf("unknown user must have empty context")
	}
	long := strings.Repeat("가", 250)
	s.Record("u", "first?", "short answer", domain.Korean)
	s.Record("u", "second?", long, domain.Korean)

	want := "Previous Q: first?\n" +
		"Previous A (summary): short answer...\n" +
		"Previous Q: second?\n" +
		"Previous A (summary): " + strings.Repeat("가", 200) + "..."
	if got := s.Context("u"); got != want {
		t.Fatalf("Context mismatch:\nwant %q\ngot  %q", want, got)
	}
}

func TestUsers(t *testing.T) {
	s := New(3, 2)
	if s.Users() != 0 || len(s.Recent("u")) != 0 {
		t.Fatalf("empty store reports users")
	}
	s.Record("u", "q", "a", domain.English)
	s.Record("u", "q2", "a2", domain.English)
	if s.Users() != 1 {
		t.Fatalf("Users after record = %d", s.Users())
	}
}

func TestRecent_ReturnsCopy(t *testing.T) {
	s := New(3, 2)
	s.Record("u", "q", "a", domain.English)
	r := s.Recent("u")
	r[0].UserMessage = "mutated"
	if s.Recent("u")[0].UserMessage != "q" {
		t.Fatalf("Recent exposed internal state")
	}
}

func TestNew_WindowClampedToCapacity(t *testing.T) {
	s := New(1, 5)
	s.Record("u", "q1", "a1", domain.English)
	s.Record("u", "q2", "a2", domain.English)
	if got := s.Recent("u"); len(got) != 1 || got[0].UserMessage != "q2" {
		t.Fatalf("Recent = %+v", got)
	}
}

func TestRecord_Concurrent(t *testing.T) {
	s := New(3, 2)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("u%d", i%5)
			s.Record(user, "q", "a", domain.English)
			_ = s.Context(user)
		}(i)
	}
	wg.Wait()
	if s.Users() != 5 {
		t.Fatalf("Users = %d; want 5", s.Users())
	}
	for i := 0; i < 5; i++ {
		if n := len(s.turns[fmt.Sprintf("u%d", i)]); n != 3 {
			t.Fatalf("user u%d stored %d turns", i, n)
		}
	}
}
