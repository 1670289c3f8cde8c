// Package classify derives a canonical (market, category) key from the
// free-text title fields of a vendor job. Titles follow a dash-delimited
// convention ("2025 - January - Versuni - Airfryer - FR") but real data
// deviates from it, so extraction runs through ordered fallback tiers and
// degrades to explicit sentinels instead of erroring.
package classify

import (
	"strings"
	"unicode"
)

// Unknown is the sentinel used when no market could be determined. It is a
// real, reportable value; downstream code must never treat it as an error.
const Unknown = "??"

// Markets is the closed set of canonical market codes.
var Markets = []string{"DE", "FR", "NL", "UK", "TR", "AU", "BR", "US", "POL"}

// marketAliases resolves vendor codes to canonical codes: Roamler uses "PL"
// for Poland, our canonical code is "POL".
var marketAliases = map[string]string{"PL": "POL"}

// dashReplacer normalises en/em/figure dashes to plain hyphens so " - "
// splitting is reliable regardless of which glyph the vendor's editor used.
var dashReplacer = strings.NewReplacer("‒", "-", "–", "-", "—", "-")

// NormalizeDashes replaces en/em/figure dashes with plain hyphens.
func NormalizeDashes(s string) string {
	return dashReplacer.Replace(s)
}

// Key is the canonical (market, category) pair derived from a job title.
type Key struct {
	Market   string `json:"market"`
	Category string `json:"category"`
}

// Unknown reports whether the market could not be determined.
func (k Key) Unknown() bool {
	return k.Market == Unknown
}

// Classifier extracts canonical keys from job titles using the ordered
// keyword table and the closed market set.
type Classifier struct {
	markets map[string]struct{}
	aliases map[string]string
	rules   []KeywordRule
}

// New returns a Classifier with the default market set, alias table and
// keyword rules.
func New() *Classifier {
	markets := make(map[string]struct{}, len(Markets))
	for _, m := range Markets {
		markets[m] = struct{}{}
	}
	return &Classifier{
		markets: markets,
		aliases: marketAliases,
		rules:   CategoryKeywords,
	}
}

// Classify derives the canonical key from a job's workingTitle and title.
func (c *Classifier) Classify(workingTitle, title string) Key {
	return Key{
		Market:   c.Market(workingTitle, title),
		Category: c.Category(workingTitle, title),
	}
}

// resolveMarket maps a candidate code through the alias table and checks it
// against the closed market set.
func (c *Classifier) resolveMarket(code string) (string, bool) {
	if canonical, ok := c.aliases[code]; ok {
		code = canonical
	}
	_, ok := c.markets[code]
	return code, ok
}

// Market extracts the canonical market code, trying in order: the last
// workingTitle segment (canonical position), every segment (non-standard
// orderings), then a space-bounded scan of the title field. Returns Unknown
// when all tiers fail.
func (c *Classifier) Market(workingTitle, title string) string {
	parts := splitSegments(workingTitle)

	// 1. Last segment (canonical position)
	if len(parts) > 0 {
		if m, ok := c.resolveMarket(strings.ToUpper(parts[len(parts)-1])); ok {
			return m
		}
	}

	// 2. Any segment
	for _, p := range parts {
		if m, ok := c.resolveMarket(strings.ToUpper(p)); ok {
			return m
		}
	}

	// 3. Scan the title field for a space-bounded code or alias
	padded := " " + strings.ToUpper(NormalizeDashes(title)) + " "
	for code := range c.markets {
		if strings.Contains(padded, " "+code+" ") {
			return code
		}
	}
	for alias, canonical := range c.aliases {
		if strings.Contains(padded, " "+alias+" ") {
			return canonical
		}
	}

	return Unknown
}

// Category extracts the canonical category code, trying in order: the
// second-to-last workingTitle segment, every segment (skipping market codes,
// years and known non-signal words), then the title field. When no keyword
// matches, the raw second-to-last segment is returned verbatim so
// unrecognised categories stay visible downstream instead of being dropped.
func (c *Classifier) Category(workingTitle, title string) string {
	parts := splitSegments(workingTitle)

	// 1. Second-to-last segment (canonical position)
	if len(parts) >= 2 {
		if cat, ok := c.matchKeyword(strings.ToLower(parts[len(parts)-2])); ok {
			return cat
		}
	}

	// 2. All segments
	for _, p := range parts {
		if c.skipSegment(p) {
			continue
		}
		if cat, ok := c.matchKeyword(strings.ToLower(p)); ok {
			return cat
		}
	}

	// 3. Title field
	if cat, ok := c.matchKeyword(strings.ToLower(NormalizeDashes(title))); ok {
		return cat
	}

	// 4. Raw second-to-last segment, verbatim
	if len(parts) >= 2 {
		if raw := strings.TrimSpace(parts[len(parts)-2]); raw != "" {
			return raw
		}
	}

	return Unknown
}

// matchKeyword returns the category of the first rule whose keyword appears
// as a substring of text. First match wins, so table order decides
// overlapping keywords.
func (c *Classifier) matchKeyword(text string) (string, bool) {
	for _, rule := range c.rules {
		if strings.Contains(text, rule.Keyword) {
			return rule.Category, true
		}
	}
	return "", false
}

// skipSegment reports whether a segment carries no category signal: market
// codes, pure numbers (years), months and brand names.
func (c *Classifier) skipSegment(p string) bool {
	upper := strings.ToUpper(p)
	if _, ok := c.markets[upper]; ok {
		return true
	}
	if _, ok := c.aliases[upper]; ok {
		return true
	}
	if isDigits(p) {
		return true
	}
	_, ok := skipWords[strings.ToLower(p)]
	return ok
}

// splitSegments normalises dashes and splits on " - ", trimming each segment.
func splitSegments(s string) []string {
	s = NormalizeDashes(s)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	raw := strings.Split(s, " - ")
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		parts = append(parts, strings.TrimSpace(p))
	}
	return parts
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
