package reconcile

import (
	"fmt"
	"strings"

	"github.com/c360studio/gamegraph/slug"
	"github.com/c360studio/gamegraph/vocabulary/wikidata"
)

const agentQueryTemplate = `SELECT ?item ?itemLabel WHERE {
  VALUES ?occupation { %s }
  ?item %s ?occupation .
  ?item rdfs:label ?label .
  FILTER(LCASE(STR(?label)) = LCASE("%s"))
  ?item %s %s .
}
LIMIT 1`

const gameIDQueryTemplate = `SELECT ?item WHERE {
  ?item %s "%s" .
}
LIMIT 1`

const gameLabelQueryTemplate = `SELECT ?item WHERE {
  VALUES ?type { %s }
  ?item %s ?type .
  ?item rdfs:label|skos:altLabel ?label .
  FILTER(LCASE(STR(?label)) = LCASE("%s"))
}
LIMIT 1`

// EscapeLiteral escapes s for use inside a double-quoted SPARQL string.
func EscapeLiteral(s string) string {
	return literalEscaper.Replace(s)
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
)

// AgentStrategies returns the designer/artist lookup order: exact label
// among humans with one of the occupations, then the flipped "First Last"
// form of a "Last, First" name.
func AgentStrategies(occupations []string) []Strategy {
	if len(occupations) == 0 {
		occupations = wikidata.DefaultOccupations()
	}
	values := strings.Join(occupations, " ")

	query := func(name string) string {
		return fmt.Sprintf(agentQueryTemplate,
			values, wikidata.PropOccupation, EscapeLiteral(name),
			wikidata.PropInstanceOf, wikidata.ClassHuman)
	}

	return []Strategy{
		{
			Kind: ByLabel,
			Query: func(it Item) (string, bool) {
				name := slug.SearchLabel(it.Label)
				if name == "" {
					return "", false
				}
				return query(name), true
			},
		},
		{
			Kind: ByFlippedLabel,
			Query: func(it Item) (string, bool) {
				flipped, ok := slug.FlipName(slug.SearchLabel(it.Label))
				if !ok {
					return "", false
				}
				return query(flipped), true
			},
		},
	}
}

// GameStrategies returns the game lookup order: BoardGameGeek ID, then exact
// label or alias among entities of one of the types.
func GameStrategies(types []string) []Strategy {
	if len(types) == 0 {
		types = wikidata.DefaultGameTypes()
	}
	values := strings.Join(types, " ")

	return []Strategy{
		{
			Kind: ByID,
			Query: func(it Item) (string, bool) {
				id := strings.TrimSpace(it.Key)
				if id == "" {
					return "", false
				}
				return fmt.Sprintf(gameIDQueryTemplate, wikidata.PropBGGGameID, EscapeLiteral(id)), true
			},
		},
		{
			Kind: ByLabel,
			Query: func(it Item) (string, bool) {
				name := slug.SearchLabel(it.Label)
				if name == "" {
					return "", false
				}
				return fmt.Sprintf(gameLabelQueryTemplate, values, wikidata.PropInstanceOf, EscapeLiteral(name)), true
			},
		},
	}
}

// AgentChain returns a chain resolving designers and artists.
func AgentChain(q Querier, occupations []string, opts ...ChainOption) *Chain {
	return NewChain(q, AgentStrategies(occupations), opts...)
}

// GameChain returns a chain resolving games.
func GameChain(q Querier, types []string, opts ...ChainOption) *Chain {
	return NewChain(q, GameStrategies(types), opts...)
}
