// Package wikidata holds the Wikidata identifiers used when reconciling games
// and agents against the public query service.
package wikidata

// Endpoint is the public Wikidata SPARQL endpoint.
const Endpoint = "https://query.wikidata.org/sparql"

// Properties.
const (
	// PropInstanceOf is wdt:P31.
	PropInstanceOf = "wdt:P31"

	// PropOccupation is wdt:P106.
	PropOccupation = "wdt:P106"

	// PropBGGGameID is wdt:P2339, the BoardGameGeek game ID.
	PropBGGGameID = "wdt:P2339"
)

// ClassHuman is wd:Q5.
const ClassHuman = "wd:Q5"

// Occupations accepted for designer and artist matches.
const (
	OccupationVideoGameArtist   = "wd:Q3191582"
	OccupationVideoGameDesigner = "wd:Q18882335"
	OccupationBoardGameDesigner = "wd:Q1544133"
	OccupationGameDesigner      = "wd:Q3630699"
)

// Classes accepted for game label matches.
const (
	ClassBoardGame             = "wd:Q131436"
	ClassBoardGameExpansion    = "wd:Q60474521"
	ClassBoardVideoGame        = "wd:Q19272838"
	ClassCollectibleCardGame   = "wd:Q734698"
	ClassCardGame              = "wd:Q142714"
	ClassTabletopRolePlaying   = "wd:Q1643932"
	ClassTabletopGame          = "wd:Q3244175"
	ClassTileBasedGame         = "wd:Q1272194"
	ClassDedicatedDeckCardGame = "wd:Q3177859"
	ClassGermanStyleBoardGame  = "wd:Q788553"
	ClassDiceGame              = "wd:Q1515156"
)

// DefaultOccupations returns the occupation filter for agent lookups.
func DefaultOccupations() []string {
	return []string{
		OccupationVideoGameArtist,
		OccupationVideoGameDesigner,
		OccupationBoardGameDesigner,
		OccupationGameDesigner,
	}
}

// DefaultGameTypes returns the class filter for game label lookups.
func DefaultGameTypes() []string {
	return []string{
		ClassBoardGame,
		ClassBoardGameExpansion,
		ClassBoardVideoGame,
		ClassCollectibleCardGame,
		ClassCardGame,
		ClassTabletopRolePlaying,
		ClassTabletopGame,
		ClassTileBasedGame,
		ClassDedicatedDeckCardGame,
		ClassGermanStyleBoardGame,
		ClassDiceGame,
	}
}
