package boardgame

import (
	"strconv"
	"strings"

	"github.com/c360studio/gamegraph/export"
	"github.com/c360studio/gamegraph/slug"
)

// SchemaNamespace is the schema.org namespace.
const SchemaNamespace = "http://schema.org/"

// Namespace is the base IRI for the local ontology terms (bgg: prefix).
const Namespace = "http://example.org/ontology/"

// EntityNamespace is the base IRI under which entity instances are minted.
const EntityNamespace = "http://example.org/"

// Entity namespaces, one per kind of subject or referenced object.
const (
	GameNamespace        = EntityNamespace + "game/"
	AgentNamespace       = EntityNamespace + "agent/"
	CategoryNamespace    = EntityNamespace + "category/"
	MechanicNamespace    = EntityNamespace + "mechanic/"
	FamilyNamespace      = EntityNamespace + "family/"
	CompilationNamespace = EntityNamespace + "compilation/"
	ExpansionNamespace   = EntityNamespace + "expansion/"
)

// Prefix names used in prefixed terms.
const (
	PrefixSchema      = "schema"
	PrefixOntology    = "bgg"
	PrefixGame        = "game"
	PrefixAgent       = "agent"
	PrefixCategory    = "category"
	PrefixMechanic    = "mechanic"
	PrefixFamily      = "family"
	PrefixCompilation = "comp"
	PrefixExpansion   = "exp"
	PrefixOWL         = "owl"
)

// ClassGame is the type asserted for every game subject.
const ClassGame = "schema:Game"

// SameAs links a local subject to its external counterpart.
const SameAs = "owl:sameAs"

// GraphPrefixes returns the prologue of the serialized game graph.
func GraphPrefixes() []export.PrefixGroup {
	return []export.PrefixGroup{
		{
			{Name: "rdf", IRI: export.NamespaceRDF},
			{Name: "rdfs", IRI: export.NamespaceRDFS},
			{Name: "xsd", IRI: export.NamespaceXSD},
			{Name: PrefixSchema, IRI: SchemaNamespace},
			{Name: PrefixOntology, IRI: Namespace},
		},
		{
			{Name: PrefixGame, IRI: GameNamespace},
			{Name: PrefixAgent, IRI: AgentNamespace},
			{Name: PrefixCategory, IRI: CategoryNamespace},
			{Name: PrefixMechanic, IRI: MechanicNamespace},
			{Name: PrefixFamily, IRI: FamilyNamespace},
			{Name: PrefixCompilation, IRI: CompilationNamespace},
			{Name: PrefixExpansion, IRI: ExpansionNamespace},
		},
	}
}

// AgentLinkPrefixes returns the prologue of an agent link batch.
func AgentLinkPrefixes() []export.PrefixGroup {
	return []export.PrefixGroup{{
		{Name: PrefixOWL, IRI: export.NamespaceOWL},
		{Name: PrefixAgent, IRI: AgentNamespace},
	}}
}

// GameLinkPrefixes returns the prologue of a game link batch.
func GameLinkPrefixes() []export.PrefixGroup {
	return []export.PrefixGroup{{
		{Name: PrefixOWL, IRI: export.NamespaceOWL},
		{Name: PrefixGame, IRI: GameNamespace},
	}}
}

// GameRef returns the subject term of the game with dataset id. Plain
// integer ids are used as is, anything else is normalized. ok is false for an
// empty id.
func GameRef(id string) (export.Term, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", false
	}
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		id = slug.Normalize(id)
	}
	return export.Ref(PrefixGame, id), true
}

// AgentRef returns the term of a designer, artist or publisher by display
// name. ok is false for an empty name.
func AgentRef(name string) (export.Term, bool) {
	local := slug.Normalize(strings.TrimSpace(name))
	if local == "" {
		return "", false
	}
	return export.Ref(PrefixAgent, local), true
}
