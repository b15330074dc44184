// Package domain defines the value types shared by the chatbot pipeline
// (languages, intents, catalog entries, conversation turns) and the
// persistence models mapped with GORM.
package domain

import "time"

// Language is the closed set of languages the detector can return.
type Language string

const (
	Thai       Language = "thai"
	Korean     Language = "korean"
	Japanese   Language = "japanese"
	Chinese    Language = "chinese"
	English    Language = "english"
	Arabic     Language = "arabic"
	Russian    Language = "russian"
	French     Language = "french"
	Spanish    Language = "spanish"
	German     Language = "german"
	Vietnamese Language = "vietnamese"
)

// Languages lists every supported language in detector priority order.
var Languages = []Language{
	Thai, Korean, Japanese, Chinese, Arabic, Russian,
	French, Spanish, German, Vietnamese, English,
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	for _, v := range Languages {
		if v == l {
			return true
		}
	}
	return false
}

// Intent is the coarse routing label produced by the classifier.
type Intent string

const (
	IntentPrice    Intent = "price"
	IntentList     Intent = "list"
	IntentFeature  Intent = "feature"
	IntentMoreInfo Intent = "moreInfo"
	IntentNone     Intent = "none"
)

// FileType distinguishes price sheets from descriptive listings.
type FileType string

const (
	FilePrice FileType = "price"
	FileList  FileType = "list"
)

// Channel identifies the transport a message arrived on.
type Channel string

const (
	ChannelWeb       Channel = "web"
	ChannelMessaging Channel = "messaging"
)

// Message is a single inbound user utterance. It is never persisted.
type Message struct {
	Text    string
	UserID  string
	Channel Channel
}

// CatalogEntry is one product file loaded from the catalog directory.
// FileID is the base filename, e.g. "mango_soap_price.txt".
type CatalogEntry struct {
	FileID   string   `json:"file_id"`
	FileType FileType `json:"file_type"`
	Content  string   `json:"-"`
}

// ScoredMatch is a catalog entry ranked against a query.
type ScoredMatch struct {
	Entry           CatalogEntry `json:"entry"`
	Score           int          `json:"score"`
	MatchedKeywords []string     `json:"matched_keywords"`
}

// Turn is one answered exchange kept in conversation memory.
type Turn struct {
	Timestamp   time.Time
	UserMessage string
	BotResponse string
	Language    Language
}

// HealthSnapshot is the read-only status view of the in-memory caches.
type HealthSnapshot struct {
	CatalogSize       int        `json:"catalog_size"`
	CachedLanguages   []Language `json:"cached_languages"`
	LastCatalogUpdate *time.Time `json:"last_catalog_update,omitempty"`
	Initialized       bool       `json:"initialized"`
	LLMConfigured     bool       `json:"llm_configured"`
	ActiveUsers       int        `json:"active_users"`
}
