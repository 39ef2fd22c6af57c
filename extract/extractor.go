// Package extract turns shopping listings into candidate keywords.
package extract

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/trendscout/core"
	"golang.org/x/net/html"
)

// DefaultMinFrequency is how often a title word must appear in a batch to be kept.
const DefaultMinFrequency = 2

// Hangul syllable runs of two or more, Latin letter runs of three or more.
var tokenPattern = regexp.MustCompile(`[가-힣]{2,}|[A-Za-z]{3,}`)

// Extractor derives keywords from listing titles and brands.
//
// A title word must repeat across the batch to count; a brand counts on its
// first sighting.
type Extractor struct {
	minFreq     int
	maxKeywords int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMinFrequency sets the minimum batch frequency for title words.
// Values below 1 are treated as 1.
func WithMinFrequency(n int) Option {
	return func(e *Extractor) {
		e.minFreq = max(n, 1)
	}
}

// WithMaxKeywords caps the result to the n most frequent keywords.
// Zero means no cap.
func WithMaxKeywords(n int) Option {
	return func(e *Extractor) {
		e.maxKeywords = max(n, 0)
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{minFreq: DefaultMinFrequency}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StripMarkup removes complete tags from s and unescapes entities.
// A trailing '<' with no closing '>' is kept as text.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	var tail string
	if i := strings.LastIndexByte(s, '<'); i >= 0 && strings.IndexByte(s[i:], '>') < 0 {
		s, tail = s[:i], html.UnescapeString(s[i:])
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			b.WriteString(tail)
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// Tokenize returns the keyword tokens of a plain-text title in order of appearance.
func Tokenize(title string) []string {
	return tokenPattern.FindAllString(title, -1)
}

// Histogram counts title tokens over the whole batch.
func Histogram(products []core.Product) map[string]int {
	counts := make(map[string]int)
	for _, p := range products {
		for _, tok := range Tokenize(StripMarkup(p.Title)) {
			counts[tok]++
		}
	}
	return counts
}

// Extract returns the sorted union of frequent title words and brands.
func (e *Extractor) Extract(products []core.Product) []string {
	counts := Histogram(products)

	brands := make(map[string]int)
	for _, p := range products {
		brand := core.NormalizeKeyword(StripMarkup(p.Brand))
		if utf8.RuneCountInString(brand) >= 2 {
			brands[brand]++
		}
	}

	// frequency of every kept keyword, used only when capping
	kept := make(map[string]int, len(brands))
	for word, n := range counts {
		if n >= e.minFreq {
			kept[word] = n
		}
	}
	for brand, n := range brands {
		kept[brand] = max(kept[brand], counts[brand], n)
	}

	keywords := make([]string, 0, len(kept))
	for k := range kept {
		keywords = append(keywords, k)
	}

	if e.maxKeywords > 0 && len(keywords) > e.maxKeywords {
		slices.SortFunc(keywords, func(a, b string) int {
			if c := cmp.Compare(kept[b], kept[a]); c != 0 {
				return c
			}
			return strings.Compare(a, b)
		})
		keywords = keywords[:e.maxKeywords]
	}

	slices.Sort(keywords)
	return keywords
}
