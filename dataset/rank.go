package dataset

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/c360studio/gamegraph/slug"
)

// Agent is a designer or artist name with its number of credits.
type Agent struct {
	Name  string
	Count int
}

// Game is a reconciliation candidate ranked by popularity.
type Game struct {
	ID          string
	Name        string
	RatingCount int
}

// SortByGameID returns the rows ordered by numeric game_id. Rows whose id is
// not a number keep their relative order after all numeric ones.
func SortByGameID(rows []Row) []Row {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b Row) int {
		av, aok := number(a.Get(ColGameID))
		bv, bok := number(b.Get(ColGameID))
		switch {
		case aok && bok:
			return cmp.Compare(av, bv)
		case aok:
			return -1
		case bok:
			return 1
		default:
			return 0
		}
	})
	return out
}

// RankAgents counts designer and artist credits and returns the names by
// descending count; ties keep first-seen order. Cells mentioning an
// uncredited contributor are skipped entirely.
func RankAgents(rows []Row) []Agent {
	counts := make(map[string]int)
	var order []string

	for _, col := range []string{ColDesigner, ColArtist} {
		for _, row := range rows {
			raw := row.Get(col)
			if raw == "" || strings.Contains(raw, slug.Uncredited) {
				continue
			}
			for _, name := range slug.Items(raw, slug.Uncredited) {
				if _, seen := counts[name]; !seen {
					order = append(order, name)
				}
				counts[name]++
			}
		}
	}

	agents := make([]Agent, len(order))
	for i, name := range order {
		agents[i] = Agent{Name: name, Count: counts[name]}
	}
	slices.SortStableFunc(agents, func(a, b Agent) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return agents
}

// RankGames returns the named games by descending rating count. Unparseable
// counts rank as zero; ties keep dataset order.
func RankGames(rows []Row) []Game {
	var games []Game
	for _, row := range rows {
		name := row.Get(ColName)
		if strings.TrimSpace(name) == "" {
			continue
		}
		count := 0
		if v, ok := number(row.Get(ColUsersRated)); ok {
			count = int(v)
		}
		games = append(games, Game{
			ID:          strings.TrimSpace(row.Get(ColGameID)),
			Name:        name,
			RatingCount: count,
		})
	}

	slices.SortStableFunc(games, func(a, b Game) int {
		return cmp.Compare(b.RatingCount, a.RatingCount)
	})
	return games
}

func number(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
