// Package slug turns display strings from the dataset into URI-safe local
// identifiers and splits multi-valued fields into identifier sequences.
//
// Normalization is lossy on purpose: typographic digit forms fold onto ASCII
// digits ("Risk²" and "Risk2" share an identifier) and inputs made only of
// symbols all become "unknown".
package slug

import (
	"iter"
	"regexp"
	"strings"
	"unicode"
)

// Unknown is returned by Normalize when nothing survives normalization.
const Unknown = "unknown"

// Uncredited marks a missing designer or artist credit in the dataset.
const Uncredited = "Uncredited"

// notANumber is the sentinel the dataset export uses for missing values.
const notANumber = "nan"

var (
	// Corporate suffixes whose comma would otherwise read as a list separator.
	suffixReplacer = strings.NewReplacer(", Inc", " Inc", ", Ltd", " Ltd", ", LLC", " LLC")

	// Separators and typographic digits with lexical equivalents.
	typographyReplacer = strings.NewReplacer(
		" / ", "-",
		"/", "-",
		"&", "and",
		"¹", "1",
		"²", "2",
		"³", "3",
		"½", "1_2",
	)

	underscoreRun = regexp.MustCompile(`_+`)
	parenthetical = regexp.MustCompile(`\s*\(.*?\)`)
)

// CanonicalizeSuffixes rewrites ", Inc", ", Ltd" and ", LLC" without the comma.
func CanonicalizeSuffixes(s string) string {
	return suffixReplacer.Replace(s)
}

// Normalize converts a display string into a local identifier. It returns ""
// only for empty input; callers skip those.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	if s := clean(raw); s != "" {
		return s
	}
	return Unknown
}

// Significant reports whether raw keeps any characters after normalization,
// that is whether Normalize returns more than the Unknown fallback.
func Significant(raw string) bool {
	return clean(raw) != ""
}

func clean(raw string) string {
	s := CanonicalizeSuffixes(raw)
	s = typographyReplacer.Replace(s)

	// Letters and numbers of any script pass through untouched.
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, s)

	s = underscoreRun.ReplaceAllString(s, "_")
	return strings.Trim(s, "_-")
}

// Items splits a comma-separated field into trimmed display values. Empty
// items, the "nan" sentinel and any of the extra sentinels in drop are
// skipped; sentinel matching ignores case. A field that is itself "nan"
// yields nothing.
//
// Suffix commas are removed before splitting. Commas belonging to anything
// else (personal names written "Last, First", unlisted suffixes) split the
// value.
func Items(raw string, drop ...string) []string {
	if raw == "" || strings.EqualFold(strings.TrimSpace(raw), notANumber) {
		return nil
	}

	var out []string
	for _, item := range strings.Split(CanonicalizeSuffixes(raw), ",") {
		item = strings.TrimSpace(item)
		if item == "" || isSentinel(item, drop) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Split returns the normalized identifiers of a multi-valued field in field
// order. The sequence is lazy and can be ranged over more than once.
func Split(raw string, drop ...string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, item := range Items(raw, drop...) {
			id := Normalize(item)
			if id == "" {
				continue
			}
			if !yield(id) {
				return
			}
		}
	}
}

func isSentinel(item string, drop []string) bool {
	if strings.EqualFold(item, notANumber) {
		return true
	}
	for _, d := range drop {
		if strings.EqualFold(item, d) {
			return true
		}
	}
	return false
}

// SearchLabel strips parenthesised qualifiers from a display name, e.g.
// "Catan (5th Edition)" becomes "Catan".
func SearchLabel(name string) string {
	return strings.TrimSpace(parenthetical.ReplaceAllString(name, ""))
}

// FlipName rewrites "Last, First" as "First Last". ok is false when the name
// has no comma or flipping leaves nothing.
func FlipName(name string) (string, bool) {
	last, first, found := strings.Cut(name, ",")
	if !found {
		return "", false
	}
	flipped := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if flipped == "" {
		return "", false
	}
	return flipped, true
}
