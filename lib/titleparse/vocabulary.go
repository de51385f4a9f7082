package titleparse

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Alias maps a lower-case substring found in a title onto the value that
// should be reported for it. An empty Canonical means the alias itself,
// title-cased (models) or upper-cased (sizes).
type Alias struct {
	Match     string `yaml:"match"`
	Canonical string `yaml:"canonical"`
}

// Vocabulary is the keyword table a Parser matches titles against. Lists
// are ordered, the first alias that matches wins, so more specific aliases
// must come before the aliases they contain.
type Vocabulary struct {
	Brand    Alias   `yaml:"brand"`
	Models   []Alias `yaml:"models"`
	Genders  []Alias `yaml:"genders"`
	Variants []Alias `yaml:"variants"`
	// Sizes are matched as whole words against the original title,
	// case-insensitively.
	Sizes []Alias `yaml:"sizes"`
}

func aliases(canonical string, matches ...string) []Alias {
	out := make([]Alias, len(matches))
	for i, m := range matches {
		out[i] = Alias{Match: m, Canonical: canonical}
	}
	return out
}

// RabVocabulary is the built-in profile for Rab jackets.
func RabVocabulary() Vocabulary {
	var genders []Alias
	// women before men, "women" contains "men"
	genders = append(genders, aliases("Women", "women", "womens", "woman", "ladies")...)
	genders = append(genders, aliases("Men", "men", "mens", "man")...)

	var variants []Alias
	variants = append(variants, aliases("Vest", "vest", "gilet")...)
	variants = append(variants, aliases("Hooded", "hood", "hooded")...)

	return Vocabulary{
		Brand: Alias{Match: "rab", Canonical: "Rab"},
		Models: []Alias{
			{Match: "microlight alpine"},
			{Match: "microlight"},
			{Match: "valiance"},
			{Match: "cirrus"},
			{Match: "electron"},
			{Match: "positron"},
			{Match: "nebula"},
		},
		Genders:  genders,
		Variants: variants,
		Sizes: []Alias{
			{Match: "XXS"},
			{Match: "XS"},
			{Match: "S"},
			{Match: "M"},
			{Match: "L"},
			{Match: "XL"},
			{Match: "XXL"},
			{Match: "2XL", Canonical: "XXL"},
			{Match: "3XL"},
		},
	}
}

func (v Vocabulary) Validate() error {
	if v.Brand.Match == "" {
		return fmt.Errorf("vocabulary: brand keyword is empty")
	}
	if v.Brand.Canonical == "" {
		return fmt.Errorf("vocabulary: brand label is empty")
	}
	for _, list := range [][]Alias{v.Models, v.Genders, v.Variants, v.Sizes} {
		for _, a := range list {
			if a.Match == "" {
				return fmt.Errorf("vocabulary: alias with empty match (canonical %q)", a.Canonical)
			}
		}
	}
	return nil
}

// LoadVocabulary reads a yaml brand profile.
func LoadVocabulary(path string) (Vocabulary, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("load vocabulary: %w", err)
	}
	var v Vocabulary
	err = yaml.Unmarshal(contents, &v)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("load vocabulary %s: %w", path, err)
	}
	err = v.Validate()
	if err != nil {
		return Vocabulary{}, err
	}
	return v, nil
}
