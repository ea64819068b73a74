// Package rank infers a card's market rank from the free-text comments
// attached to it. Comments mention offers like "3s" or "2 эс"; the
// estimator extracts every (quantity, rank) mention, normalizes the rank
// spelling, and votes by frequency.
package rank

// Category is one canonical rank code with its accepted surface spellings.
type Category struct {
	Code     string
	Variants []string
}

// Vocabulary is an ordered list of categories. Order matters twice: later
// categories win when two share a lowercased variant, and earlier variants
// win when the scan pattern could match more than one at the same position.
type Vocabulary []Category

// Default is the rank vocabulary observed in the wild: latin codes plus
// cyrillic and spelled-out colloquial forms.
func Default() Vocabulary {
	return Vocabulary{
		{Code: "S", Variants: []string{"s", "S", "эс"}},
		{Code: "C", Variants: []string{"c", "C", "си", "с"}},
		{Code: "A", Variants: []string{"a", "A", "а"}},
		{Code: "B", Variants: []string{"b", "B", "б", "бэ"}},
		{Code: "D", Variants: []string{"d", "D", "д"}},
		{Code: "E", Variants: []string{"e", "E", "е"}},
		{Code: "G", Variants: []string{"g", "G", "г", "гэ"}},
		{Code: "H", Variants: []string{"h", "H", "аш"}},
		{Code: "N", Variants: []string{"n", "N", "эн"}},
		{Code: "P", Variants: []string{"p", "P", "п", "пэ"}},
		{Code: "X", Variants: []string{"x", "X", "икс"}},
	}
}
