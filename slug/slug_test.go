package slug

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: ""},
		{name: "spaces", raw: "Klaus Teuber", want: "Klaus_Teuber"},
		{name: "corporate suffix", raw: "Mayfair Games, Inc", want: "Mayfair_Games_Inc"},
		{name: "ltd suffix", raw: "Games Workshop, Ltd", want: "Games_Workshop_Ltd"},
		{name: "spaced slash", raw: "Hans im Glück / Rio Grande", want: "Hans_im_Glück-Rio_Grande"},
		{name: "bare slash", raw: "AC/DC", want: "AC-DC"},
		{name: "ampersand", raw: "Dungeons & Dragons", want: "Dungeons_and_Dragons"},
		{name: "superscript", raw: "Risk²", want: "Risk2"},
		{name: "fraction", raw: "War ½", want: "War_1_2"},
		{name: "punctuation collapses", raw: "Hello!!!  World???", want: "Hello_World"},
		{name: "leading and trailing stripped", raw: "  (Catan)  ", want: "Catan"},
		{name: "leading hyphen stripped", raw: "-Hra-", want: "Hra"},
		{name: "mixed edge characters", raw: "-_Hra_-", want: "Hra"},
		{name: "inner hyphen kept", raw: "Tic-Tac-Toe", want: "Tic-Tac-Toe"},
		{name: "cyrillic passes through", raw: "Манчкин", want: "Манчкин"},
		{name: "cjk passes through", raw: "三国殺", want: "三国殺"},
		{name: "diacritics kept", raw: "Osadníci z Katanu", want: "Osadníci_z_Katanu"},
		{name: "symbols only", raw: "???", want: "unknown"},
		{name: "single underscore", raw: "_", want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalizeSymbolOnlyInputsCollapseToUnknown(t *testing.T) {
	for _, raw := range []string{"!", "?!", "...", "()", "$$$", " ", "@#%^*", "-", "--_--", "“”"} {
		assert.Equal(t, Unknown, Normalize(raw), "input %q", raw)
	}
}

func TestNormalizeEquivalenceClasses(t *testing.T) {
	pairs := [][2]string{
		{"Risk²", "Risk2"},
		{"Risk³", "Risk3"},
		{"A / B", "A/B"},
		{"A & B", "A and B"},
		{"War ½", "War 1 2"},
		{"Acme, Inc", "Acme Inc"},
	}
	for _, p := range pairs {
		assert.Equal(t, Normalize(p[1]), Normalize(p[0]), "%q vs %q", p[0], p[1])
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	for _, raw := range []string{"Klaus Teuber", "Risk²", "AC/DC", "Манчкин", "???", "Tic-Tac-Toe"} {
		once := Normalize(raw)
		assert.Equal(t, once, Normalize(once), "input %q", raw)
	}
}

func TestSignificant(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"Klaus Teuber", true},
		{"unknown", true},
		{"Ζαχαρίας", true},
		{"???", false},
		{" - _ ", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Significant(tt.raw))
		})
	}
}

func TestItems(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		drop []string
		want []string
	}{
		{name: "empty", raw: "", want: nil},
		{name: "nan field", raw: "nan", want: nil},
		{name: "NaN field", raw: " NaN ", want: nil},
		{name: "trims", raw: " a ,b,  c", want: []string{"a", "b", "c"}},
		{name: "drops blanks", raw: "a,, ,b", want: []string{"a", "b"}},
		{name: "drops nan items", raw: "a, nan, b", want: []string{"a", "b"}},
		{name: "keeps suffix together", raw: "Mayfair Games, Inc, Kosmos", want: []string{"Mayfair Games Inc", "Kosmos"}},
		{name: "drop sentinel", raw: "Klaus Teuber, Uncredited", drop: []string{Uncredited}, want: []string{"Klaus Teuber"}},
		{name: "drop sentinel ignores case", raw: "uncredited, X", drop: []string{Uncredited}, want: []string{"X"}},
		{name: "personal name comma splits", raw: "Teuber, Klaus", want: []string{"Teuber", "Klaus"}},
		{name: "unlisted suffix splits", raw: "Hasbro, S.A.", want: []string{"Hasbro", "S.A."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Items(tt.raw, tt.drop...))
		})
	}
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, slices.Collect(Split("a, b, c")))
	assert.Equal(t, []string{"Klaus_Teuber"}, slices.Collect(Split("Klaus Teuber, Uncredited", Uncredited)))
	assert.Equal(t, []string{"Hand_Management", "Dice_Rolling"}, slices.Collect(Split("Hand Management, Dice Rolling")))
	assert.Empty(t, slices.Collect(Split("")))
	assert.Empty(t, slices.Collect(Split("nan")))
}

func TestSplitIsRestartable(t *testing.T) {
	seq := Split("x, y, z")
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"x", "y", "z"}, first)
}

func TestSplitStopsEarly(t *testing.T) {
	var got []string
	for id := range Split("a, b, c") {
		got = append(got, id)
		if id == "b" {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestSearchLabel(t *testing.T) {
	assert.Equal(t, "Catan", SearchLabel("Catan (5th Edition)"))
	assert.Equal(t, "Carcassonne Expansion", SearchLabel("Carcassonne (2000) Expansion (Big Box)"))
	assert.Equal(t, "Klaus Teuber", SearchLabel("  Klaus Teuber "))
}

func TestFlipName(t *testing.T) {
	got, ok := FlipName("Teuber, Klaus")
	assert.True(t, ok)
	assert.Equal(t, "Klaus Teuber", got)

	got, ok = FlipName("Leacock,Matt")
	assert.True(t, ok)
	assert.Equal(t, "Matt Leacock", got)

	_, ok = FlipName("Klaus Teuber")
	assert.False(t, ok)

	_, ok = FlipName(" , ")
	assert.False(t, ok)
}
