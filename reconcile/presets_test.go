package reconcile_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/c360studio/gamegraph/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeLiteral(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`Catan`, `Catan`},
		{`The "Game"`, `The \"Game\"`},
		{`back\slash`, `back\\slash`},
		{"two\nlines", `two\nlines`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, reconcile.EscapeLiteral(tt.in))
	}
}

func TestAgentStrategies(t *testing.T) {
	strategies := reconcile.AgentStrategies([]string{"wd:Q1544133"})
	require.Len(t, strategies, 2)

	byLabel, flipped := strategies[0], strategies[1]

	q, ok := byLabel.Query(reconcile.Item{Label: "Teuber, Klaus (I)"})
	require.True(t, ok)
	assert.Contains(t, q, `LCASE("Teuber, Klaus")`)
	assert.Contains(t, q, "VALUES ?occupation { wd:Q1544133 }")
	assert.Contains(t, q, "wdt:P106 ?occupation")
	assert.Contains(t, q, "?item wdt:P31 wd:Q5 .")
	assert.Contains(t, q, "LIMIT 1")

	q, ok = flipped.Query(reconcile.Item{Label: "Teuber, Klaus (I)"})
	require.True(t, ok)
	assert.Contains(t, q, `LCASE("Klaus Teuber")`)

	_, ok = flipped.Query(reconcile.Item{Label: "Klaus Teuber"})
	assert.False(t, ok, "no comma, no flipped lookup")

	_, ok = byLabel.Query(reconcile.Item{Label: "(only qualifier)"})
	assert.False(t, ok)
}

func TestAgentStrategies_DefaultOccupations(t *testing.T) {
	q, ok := reconcile.AgentStrategies(nil)[0].Query(reconcile.Item{Label: "Reiner Knizia"})
	require.True(t, ok)
	assert.Contains(t, q, "wd:Q3191582 wd:Q18882335 wd:Q1544133 wd:Q3630699")
}

func TestGameStrategies(t *testing.T) {
	strategies := reconcile.GameStrategies(nil)
	require.Len(t, strategies, 2)

	q, ok := strategies[0].Query(reconcile.Item{Key: "13", Label: "Catan"})
	require.True(t, ok)
	assert.Contains(t, q, `?item wdt:P2339 "13" .`)

	_, ok = strategies[0].Query(reconcile.Item{Label: "Catan"})
	assert.False(t, ok)

	q, ok = strategies[1].Query(reconcile.Item{Key: "13", Label: `Catan: "Seafarers" (5th Edition)`})
	require.True(t, ok)
	assert.Contains(t, q, `LCASE("Catan: \"Seafarers\"")`)
	assert.Contains(t, q, "rdfs:label|skos:altLabel")
	assert.Contains(t, q, "wd:Q131436")
}

func TestGameChain_AgainstServer(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		queries = append(queries, query)
		w.Header().Set("Content-Type", "application/sparql-results+json")
		if len(queries) == 1 {
			w.Write([]byte(`{"head":{"vars":["item"]},"results":{"bindings":[]}}`))
			return
		}
		w.Write([]byte(catanResults))
	}))
	defer server.Close()

	chain := reconcile.GameChain(reconcile.NewClient(server.URL), nil)
	res := chain.Resolve(context.Background(), reconcile.Item{Key: "999999", Label: "Catan"})

	assert.Equal(t, reconcile.Result{URI: "http://www.wikidata.org/entity/Q17271", Strategy: reconcile.ByLabel}, res)
	require.Len(t, queries, 2)
	assert.Contains(t, queries[0], "wdt:P2339")
	assert.Contains(t, queries[1], "skos:altLabel")
}

func TestProbe(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	require.NoError(t, reconcile.Probe(context.Background(), server.URL+"/sparql", time.Second))

	// Grab a free port and release it so nothing is listening there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	err = reconcile.Probe(context.Background(), "http://"+addr+"/sparql", time.Second)
	assert.ErrorIs(t, err, reconcile.ErrUnreachable)

	err = reconcile.Probe(context.Background(), "not a url", time.Second)
	assert.ErrorIs(t, err, reconcile.ErrUnreachable)
}
