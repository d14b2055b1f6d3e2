package portfolio

import "strings"

// Matcher links an ETF constituent name to one of the owner's position
// symbols. Name matching against two data vendors is inherently fuzzy,
// so the heuristic lives behind this interface instead of inline in the
// holdings view.
type Matcher interface {
	// Match returns the matching symbol and true, or "" and false
	Match(holdingName string, candidates map[string]string) (string, bool)
}

// TieredMatcher matches in fixed fallback tiers: exact name, then name
// prefix, then substring. The first tier with a hit wins; within a tier
// the longest candidate name wins so "Alphabet Inc Class A" beats
// "Alphabet".
type TieredMatcher struct{}

// NewMatcher creates the default tiered matcher
func NewMatcher() Matcher {
	return &TieredMatcher{}
}

// Match returns the matching symbol and true, or "" and false.
// candidates maps a position's company name to its symbol.
func (m *TieredMatcher) Match(holdingName string, candidates map[string]string) (string, bool) {
	name := normalize(holdingName)
	if name == "" {
		return "", false
	}

	type tierFn func(holding, candidate string) bool
	tiers := []tierFn{
		func(h, c string) bool { return h == c },
		func(h, c string) bool { return strings.HasPrefix(h, c) || strings.HasPrefix(c, h) },
		func(h, c string) bool { return strings.Contains(h, c) || strings.Contains(c, h) },
	}

	for _, matches := range tiers {
		bestSymbol := ""
		bestLen := 0
		for candidate, symbol := range candidates {
			c := normalize(candidate)
			if c == "" || !matches(name, c) {
				continue
			}
			if len(c) > bestLen {
				bestSymbol = symbol
				bestLen = len(c)
			}
		}
		if bestSymbol != "" {
			return bestSymbol, true
		}
	}

	return "", false
}

// Corporate suffixes that differ between vendors and carry no identity.
var nameSuffixes = []string{" inc", " corp", " corporation", " ltd", " plc", " nv", " sa", " se", " ag", " co"}

func normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", "")
	for _, suffix := range nameSuffixes {
		s = strings.TrimSuffix(s, suffix)
	}
	return strings.TrimSpace(s)
}
