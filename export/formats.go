package export

import (
	"fmt"
	"io"
	"strings"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat resolves a format name, accepting the file extension too.
func ParseFormat(name string) (Format, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for f, info := range FormatRegistry {
		if n == string(f) || n == strings.TrimPrefix(info.Extension, ".") {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format: %s", name)
}

// RecordWriter streams subject records to an output document.
type RecordWriter interface {
	// WritePrologue writes the document header. Calling it again is a no-op.
	WritePrologue() error
	// WriteRecord writes one subject block, writing the prologue first if
	// that has not happened yet.
	WriteRecord(subject, class string, rec *Record) error
}

// NewRecordWriter returns the writer for format.
func NewRecordWriter(format Format, w io.Writer, order []string, groups ...PrefixGroup) (RecordWriter, error) {
	switch format {
	case FormatTurtle:
		return NewTurtleWriter(w, order, groups...), nil
	case FormatNTriples:
		return NewNTriplesWriter(w, order, groups...), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// RecordBlock renders one Turtle statement block for subject. Predicates are
// emitted in the given order and predicates absent from order are dropped.
// Multi-valued predicates continue on new lines aligned under the first
// object. A record with nothing to emit becomes a bare type assertion.
func RecordBlock(subject, class string, rec *Record, order []string) string {
	var preds []string
	if rec != nil {
		preds = rec.Ordered(order)
	}

	var sb strings.Builder
	if len(preds) == 0 {
		fmt.Fprintf(&sb, "%s a %s .\n\n", subject, class)
		return sb.String()
	}

	fmt.Fprintf(&sb, "%s a %s ;\n", subject, class)
	for i, pred := range preds {
		values := rec.Values(pred)
		sep := ",\n" + strings.Repeat(" ", 4+len(pred)+1)

		objs := make([]string, len(values))
		for j, v := range values {
			objs[j] = string(v)
		}

		terminator := ";"
		if i == len(preds)-1 {
			terminator = "."
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", pred, strings.Join(objs, sep), terminator)
	}
	sb.WriteString("\n")
	return sb.String()
}

// TurtleWriter writes records as grouped Turtle statement blocks.
type TurtleWriter struct {
	w        io.Writer
	order    []string
	groups   []PrefixGroup
	prologue bool
	err      error
}

// NewTurtleWriter creates a Turtle writer. order is the predicate priority
// list; groups are the prefix declarations of the document prologue.
func NewTurtleWriter(w io.Writer, order []string, groups ...PrefixGroup) *TurtleWriter {
	return &TurtleWriter{w: w, order: order, groups: groups}
}

// WritePrologue writes prefix declarations once.
func (t *TurtleWriter) WritePrologue() error {
	if t.err != nil || t.prologue {
		return t.err
	}
	t.prologue = true
	for _, line := range PrologueLines(t.groups...) {
		t.write(line + "\n")
	}
	return t.err
}

// WriteRecord writes the statement block for subject.
func (t *TurtleWriter) WriteRecord(subject, class string, rec *Record) error {
	if err := t.WritePrologue(); err != nil {
		return err
	}
	t.write(RecordBlock(subject, class, rec, t.order))
	return t.err
}

// Err returns the first write error, if any.
func (t *TurtleWriter) Err() error {
	return t.err
}

func (t *TurtleWriter) write(s string) {
	if t.err != nil {
		return
	}
	_, t.err = io.WriteString(t.w, s)
}

// NTriplesWriter writes records as N-Triples, expanding every prefixed name
// against the writer's prefix groups.
type NTriplesWriter struct {
	w        io.Writer
	order    []string
	prefixes prefixIndex
	err      error
}

// NewNTriplesWriter creates a new N-Triples writer.
func NewNTriplesWriter(w io.Writer, order []string, groups ...PrefixGroup) *NTriplesWriter {
	return &NTriplesWriter{w: w, order: order, prefixes: newPrefixIndex(groups)}
}

// WritePrologue is a no-op; N-Triples has no header.
func (n *NTriplesWriter) WritePrologue() error {
	return n.err
}

// WriteRecord writes one line per triple of rec, type assertion first.
func (n *NTriplesWriter) WriteRecord(subject, class string, rec *Record) error {
	if n.err != nil {
		return n.err
	}
	s, err := n.prefixes.expand(subject)
	if err != nil {
		n.err = err
		return err
	}
	c, err := n.prefixes.expand(class)
	if err != nil {
		n.err = err
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s <%stype> %s .\n", s, NamespaceRDF, c)
	if rec != nil {
		for _, pred := range rec.Ordered(n.order) {
			p, err := n.prefixes.expand(pred)
			if err != nil {
				n.err = err
				return err
			}
			for _, v := range rec.Values(pred) {
				o, err := n.prefixes.expand(string(v))
				if err != nil {
					n.err = err
					return err
				}
				fmt.Fprintf(&sb, "%s %s %s .\n", s, p, o)
			}
		}
	}

	_, n.err = io.WriteString(n.w, sb.String())
	return n.err
}

// Err returns the first write or expansion error, if any.
func (n *NTriplesWriter) Err() error {
	return n.err
}

// expand turns a Turtle term into its N-Triples form.
func (idx prefixIndex) expand(term string) (string, error) {
	switch {
	case term == "":
		return "", fmt.Errorf("empty term")
	case term == "a":
		return "<" + NamespaceRDF + "type>", nil
	case strings.HasPrefix(term, "<"):
		return term, nil
	case strings.HasPrefix(term, `"`):
		end := closingQuote(term)
		if end < 0 {
			return "", fmt.Errorf("unterminated literal: %s", term)
		}
		lexical, rest := term[:end+1], term[end+1:]
		if dt, ok := strings.CutPrefix(rest, "^^"); ok {
			expanded, err := idx.expand(dt)
			if err != nil {
				return "", err
			}
			return lexical + "^^" + expanded, nil
		}
		return term, nil
	}

	prefix, local, ok := strings.Cut(term, ":")
	if !ok {
		return "", fmt.Errorf("not a prefixed name: %s", term)
	}
	ns, ok := idx[prefix]
	if !ok {
		return "", fmt.Errorf("unknown prefix %q in %s", prefix, term)
	}
	return "<" + ns + local + ">", nil
}

// closingQuote returns the index of the quote that ends the literal starting
// at s[0], skipping backslash escapes.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}
