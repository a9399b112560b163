package serializer

import (
	"strconv"
	"strings"

	"github.com/c360studio/gamegraph/dataset"
	"github.com/c360studio/gamegraph/export"
	"github.com/c360studio/gamegraph/slug"
	bg "github.com/c360studio/gamegraph/vocabulary/boardgame"
)

type literalField struct {
	column    string
	predicate string
	encode    func(string) (export.Term, bool)
}

type relationField struct {
	column    string
	predicate string
	prefix    string
	drop      []string
}

var literals = []literalField{
	{dataset.ColName, bg.Name, export.Text},
	{dataset.ColDescription, bg.Description, export.Text},
	{dataset.ColYearPublished, bg.DatePublished, export.Year},
}

var numerics = []literalField{
	{dataset.ColMinPlayers, bg.MinPlayers, export.PositiveInteger},
	{dataset.ColMaxPlayers, bg.MaxPlayers, export.PositiveInteger},
	{dataset.ColMinPlaytime, bg.MinPlaytime, export.PositiveInteger},
	{dataset.ColMaxPlaytime, bg.MaxPlaytime, export.PositiveInteger},
	{dataset.ColPlayingTime, bg.PlayingTime, export.PositiveInteger},
	{dataset.ColMinAge, bg.MinAge, export.PositiveInteger},
}

// Agent columns also drop uncredited entries.
var relations = []relationField{
	{dataset.ColArtist, bg.Contributor, bg.PrefixAgent, []string{slug.Uncredited}},
	{dataset.ColDesigner, bg.Author, bg.PrefixAgent, []string{slug.Uncredited}},
	{dataset.ColPublisher, bg.Publisher, bg.PrefixAgent, []string{slug.Uncredited}},
	{dataset.ColCategory, bg.Genre, bg.PrefixCategory, nil},
	{dataset.ColMechanic, bg.HasMechanic, bg.PrefixMechanic, nil},
	{dataset.ColFamily, bg.PartOfSeries, bg.PrefixFamily, nil},
	{dataset.ColCompilation, bg.IsPartOf, bg.PrefixCompilation, nil},
	{dataset.ColExpansion, bg.HasExpansion, bg.PrefixExpansion, nil},
}

// A zero rating means the game has not been rated.
var ratings = []literalField{
	{dataset.ColAverageRating, bg.RatingValue, nonZero(export.Decimal)},
	{dataset.ColUsersRated, bg.RatingCount, nonZero(export.Integer)},
}

func nonZero(encode func(string) (export.Term, bool)) func(string) (export.Term, bool) {
	return func(raw string) (export.Term, bool) {
		if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && v == 0 {
			return "", false
		}
		return encode(raw)
	}
}

// BuildRecord collects the predicates of one game. Fields that are missing
// or fail to parse are left out.
func BuildRecord(row dataset.Row) *export.Record {
	rec := export.NewRecord()

	for _, group := range [][]literalField{literals, numerics} {
		for _, f := range group {
			if term, ok := f.encode(row.Get(f.column)); ok {
				rec.Add(f.predicate, term)
			}
		}
	}

	for _, f := range relations {
		for id := range slug.Split(row.Get(f.column), f.drop...) {
			rec.Add(f.predicate, export.Ref(f.prefix, id))
		}
	}

	for _, f := range ratings {
		if term, ok := f.encode(row.Get(f.column)); ok {
			rec.Add(f.predicate, term)
		}
	}

	return rec
}

// Subject returns the subject term of the game in row.
func Subject(row dataset.Row) (export.Term, bool) {
	return bg.GameRef(row.Get(dataset.ColGameID))
}
