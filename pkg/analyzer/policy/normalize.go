package policy

import (
	"regexp"
	"strings"
)

var (
	chainSeparator = regexp.MustCompile(`\|\||&&|;|\s+`)
	identifier     = regexp.MustCompile(`^[\w-]+$`)
	chainGrouping  = strings.NewReplacer("(", " ", ")", " ", "!", " ")
)

// NormalizeChain splits a policy chain expression such as
// "(P1 || P2) && !P3" or "P1 P2; P3" into the individual policy names it
// mentions, in order. Tokens that are not identifiers are dropped.
func NormalizeChain(raw string) []string {
	raw = chainGrouping.Replace(raw)

	var names []string
	for _, tok := range chainSeparator.Split(raw, -1) {
		tok = strings.TrimSpace(tok)
		if tok == "" || !identifier.MatchString(tok) {
			continue
		}
		names = append(names, tok)
	}
	return names
}
