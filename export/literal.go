package export

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Datatype tags used by the literal encoders.
const (
	XSDInteger = "xsd:integer"
	XSDDecimal = "xsd:decimal"
	XSDGYear   = "xsd:gYear"
)

// Text encodes a free-text value as a quoted string literal. HTML entities
// are decoded and surrounding whitespace trimmed first. ok is false when
// nothing is left to encode.
func Text(raw string) (Term, bool) {
	s := strings.TrimSpace(html.UnescapeString(raw))
	if s == "" {
		return "", false
	}
	return Term(`"` + escapeString(s) + `"`), true
}

// Integer encodes raw as an xsd:integer literal. Fractional values are
// truncated.
func Integer(raw string) (Term, bool) {
	v, ok := parseNumber(raw)
	if !ok {
		return "", false
	}
	return typed(strconv.FormatInt(int64(v), 10), XSDInteger), true
}

// PositiveInteger is Integer restricted to values strictly greater than zero.
func PositiveInteger(raw string) (Term, bool) {
	v, ok := parseNumber(raw)
	if !ok || v <= 0 {
		return "", false
	}
	return typed(strconv.FormatInt(int64(v), 10), XSDInteger), true
}

// Decimal encodes raw as an xsd:decimal literal using the shortest
// representation that round-trips, always with a fractional part.
func Decimal(raw string) (Term, bool) {
	v, ok := parseNumber(raw)
	if !ok {
		return "", false
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return typed(s, XSDDecimal), true
}

// Year encodes raw as an xsd:gYear literal.
func Year(raw string) (Term, bool) {
	v, ok := parseNumber(raw)
	if !ok {
		return "", false
	}
	return typed(strconv.FormatInt(int64(v), 10), XSDGYear), true
}

func typed(lexical, datatype string) Term {
	return Term(fmt.Sprintf(`"%s"^^%s`, lexical, datatype))
}

// parseNumber accepts anything float-like ("4", "4.0", " 12 "), rejecting
// NaN, infinities and values outside the int64 range.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v >= math.MaxInt64 || v <= math.MinInt64 {
		return 0, false
	}
	return v, true
}

// escapeString escapes special characters in strings for RDF serialization.
// Non-ASCII text is kept as UTF-8.
func escapeString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, `\u%04x`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
