// Package memory keeps the last few question/answer turns per user so a
// follow-up like "tell me more" has something to refer to. It is process
// memory only; a restart forgets everything.
package memory

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/saboothailand/support-bot/internal/domain"
)

const (
	DefaultCapacity = 3
	DefaultWindow   = 2
	DefaultPreview  = 200
)

// Store is a per-user bounded FIFO of turns. Safe for concurrent use.
type Store struct {
	capacity int
	window   int
	preview  int
	now      func() time.Time

	mu    sync.RWMutex
	turns map[string][]domain.Turn
}

// New returns a Store keeping capacity turns per user and exposing the last
// window of them. Non-positive values fall back to the defaults; window is
// clamped to capacity.
func New(capacity, window int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if window > capacity {
		window = capacity
	}
	return &Store{
		capacity: capacity,
		window:   window,
		preview:  DefaultPreview,
		now:      time.Now,
		turns:    make(map[string][]domain.Turn),
	}
}

// Record appends a turn for userID, evicting the oldest beyond capacity.
func (s *Store) Record(userID, userMessage, botResponse string, lang domain.Language) {
	t := domain.Turn{
		Timestamp:   s.now().UTC(),
		UserMessage: userMessage,
		BotResponse: botResponse,
		Language:    lang,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := append(s.turns[userID], t)
	if n := len(list); n > s.capacity {
		// copy so the evicted prefix is not pinned by the backing array
		list = append([]domain.Turn(nil), list[n-s.capacity:]...)
	}
	s.turns[userID] = list
}

// Recent returns up to window most recent turns for userID, oldest first.
func (s *Store) Recent(userID string) []domain.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.turns[userID]
	if len(list) > s.window {
		list = list[len(list)-s.window:]
	}
	out := make([]domain.Turn, len(list))
	copy(out, list)
	return out
}

// Context renders Recent as prompt lines:
//
//	Previous Q: <question>
//	Previous A (summary): <first 200 runes of the answer>...
//
// It returns "" for an unknown user.
func (s *Store) Context(userID string) string {
	recent := s.Recent(userID)
	if len(recent) == 0 {
		return ""
	}
	lines := make([]string, 0, len(recent)*2)
	for _, t := range recent {
		lines = append(lines,
			"Previous Q: "+t.UserMessage,
			"Previous A (summary): "+truncateRunes(t.BotResponse, s.preview)+"...",
		)
	}
	return strings.Join(lines, "\n")
}

// Users is the number of users with recorded turns.
func (s *Store) Users() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
