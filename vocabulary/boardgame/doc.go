// Package boardgame provides the vocabulary of the board game graph: the
// namespaces and prefixes written into every document, the predicates attached
// to a game and the fixed order in which they are emitted.
//
// # Documents
//
// The serialized graph declares the standard prefixes (rdf, rdfs, xsd) plus
// schema.org and the local ontology namespace, followed by one prefix per
// kind of referenced entity:
//
//	game:      games, keyed by dataset game_id
//	agent:     designers, artists and publishers
//	category:  schema:genre targets
//	mechanic:  bgg:hasMechanic targets
//	family:    schema:partOfSeries targets
//	comp:      schema:isPartOf targets
//	exp:       bgg:hasExpansion targets
//
// Link batches only declare owl plus the prefix of the linked subjects.
//
// # Predicate order
//
// PredicateOrder lists every predicate a game block may contain. Writers emit
// predicates in this order and drop anything not listed.
package boardgame
