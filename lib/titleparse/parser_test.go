package titleparse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func str(s string) *string {
	return &s
}

func TestParse(t *testing.T) {
	parser := NewRabParser()

	testCases := []struct {
		title    string
		expected Attributes
	}{
		{
			title: "Rab Womens Microlight Vest Jacket Size M",
			expected: Attributes{
				Brand:   str("Rab"),
				Model:   str("Microlight"),
				Gender:  str("Women"),
				Variant: str("Vest"),
				Size:    str("M"),
			},
		},
		{
			title: "Rab Microlight Alpine Jacket",
			expected: Attributes{
				Brand: str("Rab"),
				Model: str("Microlight Alpine"),
			},
		},
		{
			title: "RAB MENS VALIANCE HOODED DOWN JACKET XL",
			expected: Attributes{
				Brand:   str("Rab"),
				Model:   str("Valiance"),
				Gender:  str("Men"),
				Variant: str("Hooded"),
				Size:    str("XL"),
			},
		},
		{
			title: "Rab Ladies Cirrus Gilet 2XL",
			expected: Attributes{
				Brand:   str("Rab"),
				Model:   str("Cirrus"),
				Gender:  str("Women"),
				Variant: str("Vest"),
				Size:    str("XXL"),
			},
		},
		{
			title: "rab electron hood jacket size l",
			expected: Attributes{
				Brand:   str("Rab"),
				Model:   str("Electron"),
				Variant: str("Hooded"),
				Size:    str("L"),
			},
		},
		{
			title:    "North Face Nuptse Jacket",
			expected: Attributes{},
		},
		{
			// substring matching is a known limitation, "human" contains "man"
			title: "Rab Human Powered Positron Jacket",
			expected: Attributes{
				Brand:  str("Rab"),
				Model:  str("Positron"),
				Gender: str("Men"),
			},
		},
		{
			title: "Nebula Jacket 3XL",
			expected: Attributes{
				Model: str("Nebula"),
				Size:  str("3XL"),
			},
		},
	}

	for _, test := range testCases {
		t.Run(test.title, func(t *testing.T) {
			diff := cmp.Diff(test.expected, parser.Parse(test.title))
			if diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestParseGenderPrecedence(t *testing.T) {
	parser := NewRabParser()

	testCases := []struct {
		title    string
		expected *string
	}{
		{title: "Women's Rab Jacket", expected: str("Women")},
		{title: "Men's Rab Jacket", expected: str("Men")},
		{title: "Rab Womens Jacket", expected: str("Women")},
		{title: "Rab Woman Jacket", expected: str("Women")},
		{title: "Rab Jacket", expected: nil},
	}

	for _, test := range testCases {
		attrs := parser.Parse(test.title)
		require.Equal(t, test.expected, attrs.Gender, test.title)
	}
}

func TestParseSizeWholeWord(t *testing.T) {
	parser := NewRabParser()

	require.Equal(t, str("XL"), parser.Parse("Rab Jacket XL Size").Size)
	require.Nil(t, parser.Parse("Rab MAXL Jacket").Size)
	require.Equal(t, str("XXL"), parser.Parse("Rab Jacket 2XL").Size)
	require.Equal(t, str("XXL"), parser.Parse("Rab Jacket 2xl").Size)
	require.Equal(t, str("XS"), parser.Parse("Rab Jacket xs").Size)
	require.Nil(t, parser.Parse("Rab Microlight Jacket").Size)
	// word boundaries only know ascii letters
	require.Equal(t, str("M"), parser.Parse("Rab Jacket ÄM").Size)
}

func TestParseColourAlwaysAbsent(t *testing.T) {
	parser := NewRabParser()
	require.Nil(t, parser.Parse("Rab Microlight Jacket Red Size M").Colour)
}

func TestDetects(t *testing.T) {
	parser := NewRabParser()
	require.True(t, parser.Detects("RAB jacket"))
	require.True(t, parser.Detects("Scarab brooch"))
	require.False(t, parser.Detects("Montane jacket"))
}

func TestLoadVocabulary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "montane.yaml")
	err := os.WriteFile(path, []byte(`
brand:
  match: montane
  canonical: Montane
models:
  - match: alpine pro
  - match: featherlite
    canonical: Featherlite Down
genders:
  - match: women
    canonical: Women
  - match: men
    canonical: Men
variants:
  - match: smock
    canonical: Smock
sizes:
  - match: S
  - match: M
  - match: XXXL
    canonical: 3XL
`), 0600)
	if err != nil {
		t.Fatal(err)
	}

	vocab, err := LoadVocabulary(path)
	if err != nil {
		t.Fatal(err)
	}
	parser := NewParser(vocab)

	diff := cmp.Diff(Attributes{
		Brand:   str("Montane"),
		Model:   str("Featherlite Down"),
		Gender:  str("Men"),
		Variant: str("Smock"),
		Size:    str("3XL"),
	}, parser.Parse("Montane Mens Featherlite Smock XXXL"))
	if diff != "" {
		t.Fatal(diff)
	}
	require.Equal(t, str("Alpine Pro"), parser.Parse("montane alpine pro jacket").Model)
}

func TestLoadVocabularyInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	err := os.WriteFile(path, []byte("models:\n  - match: x\n"), 0600)
	if err != nil {
		t.Fatal(err)
	}
	_, err = LoadVocabulary(path)
	require.Error(t, err)
}
