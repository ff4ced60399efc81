// Package normalize provides deterministic text folding for registry queries
// Pipeline order
// 1 Unicode NFD decomposition
// 2 Strip combining marks (diacritics)
// 3 NFC recomposition
// The legacy fulltext endpoint rejects diacritics so every query term goes
// through StripDiacritics before URL construction
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
			norm.NFC,
		)
	},
}

// StripDiacritics returns s with combining marks removed, "Obděnice" -> "Obdenice"
func StripDiacritics(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		return s
	}
	return ns
}

// CollapseSpaces trims s and folds runs of whitespace to single spaces
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
