package boardgame

// Literal-valued predicates.
const (
	// Name is the game title.
	Name = "schema:name"

	// Description is the HTML-decoded game description.
	Description = "schema:description"

	// DatePublished is the publication year (xsd:gYear).
	DatePublished = "schema:datePublished"
)

// Numeric predicates. Player counts and playtimes are only emitted when
// strictly positive.
const (
	MinPlayers  = "bgg:minPlayers"
	MaxPlayers  = "bgg:maxPlayers"
	MinPlaytime = "bgg:minPlaytime"
	MaxPlaytime = "bgg:maxPlaytime"
	PlayingTime = "bgg:playingTime"
	MinAge      = "bgg:minAge"
)

// Relation predicates pointing at normalized entity references.
const (
	// Author links a game to its designers (agent:).
	Author = "schema:author"

	// Contributor links a game to its artists (agent:).
	Contributor = "schema:contributor"

	// Publisher links a game to its publishers (agent:).
	Publisher = "schema:publisher"

	// Genre links a game to its categories (category:).
	Genre = "schema:genre"

	// IsPartOf links a game to the compilations containing it (comp:).
	IsPartOf = "schema:isPartOf"

	// PartOfSeries links a game to its families (family:).
	PartOfSeries = "schema:partOfSeries"

	// HasMechanic links a game to its mechanics (mechanic:).
	HasMechanic = "bgg:hasMechanic"

	// HasExpansion links a game to its expansions (exp:).
	HasExpansion = "bgg:hasExpansion"
)

// Rating predicates.
const (
	RatingValue = "bgg:ratingValue"
	RatingCount = "bgg:ratingCount"
)

// PredicateOrder is the global emission order of game predicates.
var PredicateOrder = []string{
	Name, Description, DatePublished,
	MinPlayers, MaxPlayers,
	MinPlaytime, MaxPlaytime, PlayingTime, MinAge,
	Author, Contributor, Publisher,
	Genre, IsPartOf, PartOfSeries,
	HasMechanic, HasExpansion,
	RatingValue, RatingCount,
}
