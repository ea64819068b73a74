package rank

import (
	"errors"
	"regexp"
	"strings"
)

// Estimator extracts rank mentions from a text corpus and picks the most
// frequent one.
type Estimator struct {
	index   map[string]string
	pattern *regexp.Regexp
}

// NewEstimator builds the reverse variant index and the scan pattern for
// the given vocabulary. When two categories share a lowercased variant,
// the category listed later in the vocabulary wins; the index is built in
// vocabulary order so that tie-break is explicit.
func NewEstimator(vocab Vocabulary) (*Estimator, error) {
	index := make(map[string]string)
	var escaped []string
	for _, cat := range vocab {
		for _, v := range cat.Variants {
			index[strings.ToLower(v)] = cat.Code
			escaped = append(escaped, regexp.QuoteMeta(v))
		}
	}
	if len(escaped) == 0 {
		return nil, errors.New("empty vocabulary")
	}

	pattern, err := regexp.Compile(`(?i)(\d+)\s*(` + strings.Join(escaped, "|") + `)`)
	if err != nil {
		return nil, err
	}

	return &Estimator{index: index, pattern: pattern}, nil
}

// Estimate scans corpus for every quantity+variant mention and returns
// the most frequent normalized token, such as "3S". Mentions with the
// exact quantity "0" are discarded; a quantity like "01" is kept. ok is
// false when no usable mention exists.
//
// Alternation follows the vocabulary's variant order at each position, so
// a short variant that prefixes a longer one ("с" in "си") matches
// according to listing order, not longest-match. On equal counts the
// token first encountered in scan order wins.
func (e *Estimator) Estimate(corpus string) (token string, ok bool) {
	matches := e.pattern.FindAllStringSubmatch(corpus, -1)

	counts := make(map[string]int)
	var order []string
	for _, m := range matches {
		quantity, variant := m[1], m[2]
		if quantity == "0" {
			continue
		}
		code, known := e.index[strings.ToLower(variant)]
		if !known {
			continue
		}
		t := quantity + code
		if counts[t] == 0 {
			order = append(order, t)
		}
		counts[t]++
	}

	best, bestCount := "", 0
	for _, t := range order {
		if counts[t] > bestCount {
			best, bestCount = t, counts[t]
		}
	}
	if bestCount == 0 {
		return "", false
	}
	return best, true
}
