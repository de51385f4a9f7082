// Package titleparse extracts structured attributes from free-text listing
// titles through keyword lookup.
//
// Matching is substring based, not tokenized: "human" contains "man" and
// will be reported as Men. Size tokens are the one exception, they are
// matched as whole words. Word boundaries are ASCII only, so a size letter
// next to a non-ASCII letter ("ÄM") still counts as a whole word.
package titleparse

import (
	"regexp"
	"strings"

	"ebayinsights-backend/lib/textutil"
)

// Attributes holds what was extracted from a title, a nil field means the
// attribute was not found.
type Attributes struct {
	Brand   *string `json:"brand"`
	Model   *string `json:"model"`
	Variant *string `json:"variant"`
	Gender  *string `json:"gender"`
	Size    *string `json:"size"`
	// Colour is never extracted yet.
	Colour *string `json:"colour"`
}

type Parser struct {
	vocab       Vocabulary
	brandMatch  string
	sizeRegex   *regexp.Regexp
	sizeAliases map[string]string
}

func NewParser(vocab Vocabulary) *Parser {
	p := &Parser{
		vocab:       vocab,
		brandMatch:  strings.ToLower(vocab.Brand.Match),
		sizeAliases: make(map[string]string, len(vocab.Sizes)),
	}

	if len(vocab.Sizes) > 0 {
		tokens := make([]string, len(vocab.Sizes))
		for i, s := range vocab.Sizes {
			tokens[i] = regexp.QuoteMeta(s.Match)
			p.sizeAliases[strings.ToUpper(s.Match)] = s.Canonical
		}
		p.sizeRegex = regexp.MustCompile(`(?i)\b(` + strings.Join(tokens, "|") + `)\b`)
	}

	return p
}

// NewRabParser is NewParser(RabVocabulary()).
func NewRabParser() *Parser {
	return NewParser(RabVocabulary())
}

func (p *Parser) Vocabulary() Vocabulary {
	return p.vocab
}

// Detects reports whether the title mentions the vocabulary's brand.
func (p *Parser) Detects(title string) bool {
	return p.brandMatch != "" && strings.Contains(strings.ToLower(title), p.brandMatch)
}

func firstMatch(lowerTitle string, list []Alias, canonicalize func(string) string) *string {
	for _, a := range list {
		if !strings.Contains(lowerTitle, strings.ToLower(a.Match)) {
			continue
		}
		value := a.Canonical
		if value == "" {
			value = canonicalize(a.Match)
		}
		return &value
	}
	return nil
}

func (p *Parser) detectBrand(lowerTitle string) *string {
	if p.brandMatch == "" || !strings.Contains(lowerTitle, p.brandMatch) {
		return nil
	}
	label := p.vocab.Brand.Canonical
	return &label
}

func (p *Parser) detectSize(title string) *string {
	if p.sizeRegex == nil {
		return nil
	}
	groups := p.sizeRegex.FindStringSubmatch(title)
	if len(groups) < 2 {
		return nil
	}
	size := strings.ToUpper(groups[1])
	if canonical := p.sizeAliases[size]; canonical != "" {
		size = canonical
	}
	return &size
}

// Parse extracts every attribute the vocabulary knows about. Parsing does
// not require the brand to be present.
func (p *Parser) Parse(title string) Attributes {
	lower := strings.ToLower(title)
	return Attributes{
		Brand:   p.detectBrand(lower),
		Model:   firstMatch(lower, p.vocab.Models, textutil.TitleCase),
		Gender:  firstMatch(lower, p.vocab.Genders, textutil.TitleCase),
		Variant: firstMatch(lower, p.vocab.Variants, textutil.TitleCase),
		Size:    p.detectSize(title),
	}
}
