// Package intent decides what a message is asking for: a price lookup, a
// product listing, an explanation, or a follow-up on the previous answer.
package intent

import (
	"github.com/saboothailand/support-bot/internal/domain"
	"github.com/saboothailand/support-bot/internal/keywords"
)

// Result carries every flag so callers can log the full picture; Label is
// the single route after precedence is applied.
type Result struct {
	Price            bool
	List             bool
	Feature          bool
	MoreInfo         bool
	ProductCandidate bool
	Products         []keywords.Hit
	Label            domain.Intent
}

// TargetType is the catalog file type a product search should read.
func (r Result) TargetType() domain.FileType {
	if r.Price {
		return domain.FilePrice
	}
	return domain.FileList
}

// Classifier is a pure function over a keyword table.
type Classifier struct {
	Table *keywords.Table
}

// New returns a Classifier over t, or over the embedded default when t is nil.
func New(t *keywords.Table) *Classifier {
	if t == nil {
		t = keywords.Default()
	}
	return &Classifier{Table: t}
}

// Classify flags text against the keyword table. lang is the detected
// language; it only orders the more-info lookup since a phrase from any
// language counts.
//
// Precedence for Label: moreInfo, then feature, then price/list for product
// candidates, else none. List defaults to true when neither price nor list
// phrases appear.
func (c *Classifier) Classify(text string, lang domain.Language) Result {
	var r Result
	_, r.Price = keywords.ContainsAny(text, c.Table.Phrases(domain.IntentPrice))
	_, r.List = keywords.ContainsAny(text, c.Table.Phrases(domain.IntentList))
	if !r.Price && !r.List {
		r.List = true
	}
	_, r.Feature = keywords.ContainsAny(text, c.Table.Phrases(domain.IntentFeature))
	r.MoreInfo = c.isMoreInfo(text, lang)
	r.Products = c.Table.FindProducts(text)
	r.ProductCandidate = len(r.Products) > 0

	switch {
	case r.MoreInfo:
		r.Label = domain.IntentMoreInfo
	case r.Feature:
		r.Label = domain.IntentFeature
	case r.ProductCandidate && r.Price:
		r.Label = domain.IntentPrice
	case r.ProductCandidate:
		r.Label = domain.IntentList
	default:
		r.Label = domain.IntentNone
	}
	return r
}

func (c *Classifier) isMoreInfo(text string, lang domain.Language) bool {
	if _, ok := keywords.ContainsAny(text, c.Table.PhrasesFor(domain.IntentMoreInfo, lang)); ok {
		return true
	}
	_, ok := keywords.ContainsAny(text, c.Table.Phrases(domain.IntentMoreInfo))
	return ok
}
