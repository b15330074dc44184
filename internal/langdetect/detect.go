// Package langdetect classifies a message into one of the supported
// languages using Unicode-block and small lexical heuristics.
//
// Detection is a pure, total function: the first rule that matches wins and
// anything unrecognized is English. Rule order matters for mixed-script
// input; ideographs only resolve to Chinese when no kana co-occur.
package langdetect

import (
	"regexp"
	"strings"

	"github.com/saboothailand/support-bot/internal/domain"
)

type rule struct {
	lang  domain.Language
	match func(s string) bool
}

var (
	thaiRE     = regexp.MustCompile(`[\x{0E00}-\x{0E7F}]`)
	hangulRE   = regexp.MustCompile(`[\x{AC00}-\x{D7AF}\x{1100}-\x{11FF}\x{3130}-\x{318F}]`)
	kanaRE     = regexp.MustCompile(`[\x{3040}-\x{309F}\x{30A0}-\x{30FF}]`)
	hanRE      = regexp.MustCompile(`[\x{4E00}-\x{9FFF}\x{3400}-\x{4DBF}]`)
	arabicRE   = regexp.MustCompile(`[\x{0600}-\x{06FF}\x{0750}-\x{077F}]`)
	cyrillicRE = regexp.MustCompile(`[\x{0400}-\x{04FF}]`)

	// Letters exclusive enough to one language that a single hit decides it.
	frenchRE     = regexp.MustCompile(`(?i)[çœæëïîûÿ]`)
	spanishRE    = regexp.MustCompile(`(?i)[ñ¿¡]`)
	germanRE     = regexp.MustCompile(`(?i)[äöüß]`)
	vietnameseRE = regexp.MustCompile(`(?i)[ăđơư\x{1EA0}-\x{1EF9}]`)

	wordRE = regexp.MustCompile(`\p{L}+`)
)

// Unaccented words that still give the language away in short ASCII queries.
var lexicon = map[domain.Language][]string{
	domain.Spanish:    {"hola", "gracias", "precio", "precios", "cuanto", "cuesta", "jabon", "tienen", "quiero"},
	domain.French:     {"bonjour", "merci", "prix", "combien", "savon", "vous", "avez", "voudrais"},
	domain.German:     {"hallo", "danke", "preis", "preise", "kosten", "seife", "haben", "bitte"},
	domain.Vietnamese: {"xin", "chao", "nhieu", "khong"},
}

var rules = []rule{
	{domain.Thai, thaiRE.MatchString},
	{domain.Korean, hangulRE.MatchString},
	{domain.Japanese, kanaRE.MatchString},
	{domain.Chinese, func(s string) bool { return hanRE.MatchString(s) && !kanaRE.MatchString(s) }},
	{domain.Arabic, arabicRE.MatchString},
	{domain.Russian, cyrillicRE.MatchString},
	{domain.French, frenchRE.MatchString},
	{domain.Spanish, spanishRE.MatchString},
	{domain.German, germanRE.MatchString},
	{domain.Vietnamese, vietnameseRE.MatchString},
}

// lexical order is fixed so ties resolve deterministically.
var lexicalOrder = []domain.Language{domain.Spanish, domain.French, domain.German, domain.Vietnamese}

// Detect returns the language of text. It never fails; unknown input is English.
func Detect(text string) domain.Language {
	if strings.TrimSpace(text) == "" {
		return domain.English
	}
	for _, r := range rules {
		if r.match(text) {
			return r.lang
		}
	}
	return detectLexical(text)
}

// detectLexical needs two hits so a single borrowed word ("merci") in an
// English sentence does not flip the result, unless the message is that word.
func detectLexical(text string) domain.Language {
	words := wordRE.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return domain.English
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	need := 2
	if len(words) <= 2 {
		need = 1
	}
	for _, lang := range lexicalOrder {
		hits := 0
		for _, w := range lexicon[lang] {
			if _, ok := set[w]; ok {
				hits++
			}
		}
		if hits >= need {
			return lang
		}
	}
	return domain.English
}
