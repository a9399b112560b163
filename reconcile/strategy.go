package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/knakk/rdf"
)

// DefaultCacheSize is the number of query answers a Chain remembers.
const DefaultCacheSize = 4096

// itemVar is the result variable carrying the matched entity.
const itemVar = "item"

// StrategyKind tags how a match was found.
type StrategyKind string

const (
	// ByID matches on an external identifier stored in the knowledge base.
	ByID StrategyKind = "id"
	// ByLabel matches the display name case-insensitively.
	ByLabel StrategyKind = "label"
	// ByFlippedLabel matches a "Last, First" name written "First Last".
	ByFlippedLabel StrategyKind = "flipped_label"
)

// Item is the entity being reconciled.
type Item struct {
	// Key is the local identifier, e.g. the dataset game_id.
	Key string
	// Label is the display name.
	Label string
}

// Result is the outcome of resolving one item.
type Result struct {
	URI      string
	Strategy StrategyKind
	// Failure is set on a miss when at least one lookup failed; Fatal wins
	// over Transient. Err holds the failures.
	Failure FailureKind
	Err     error
}

// Found reports whether a match was found.
func (r Result) Found() bool {
	return r.URI != ""
}

// Strategy builds the query for one lookup attempt. Query returns false when
// the strategy does not apply to the item; no request is made then.
type Strategy struct {
	Kind  StrategyKind
	Query func(Item) (string, bool)
}

// Querier runs SELECT queries. *Client implements it.
type Querier interface {
	Select(ctx context.Context, query string) ([]Binding, error)
}

// Chain tries its strategies in order and returns the first match.
type Chain struct {
	querier    Querier
	strategies []Strategy
	cache      *lru.Cache[string, string]
	cacheSize  int
	logger     *slog.Logger
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithChainLogger sets the logger.
func WithChainLogger(logger *slog.Logger) ChainOption {
	return func(c *Chain) {
		c.logger = logger
	}
}

// WithCacheSize sets how many query answers are memoized. Zero disables the
// cache.
func WithCacheSize(n int) ChainOption {
	return func(c *Chain) {
		c.cacheSize = n
	}
}

// NewChain creates a chain over strategies, tried in the given order.
func NewChain(q Querier, strategies []Strategy, opts ...ChainOption) *Chain {
	c := &Chain{
		querier:    q,
		strategies: strategies,
		cacheSize:  DefaultCacheSize,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cacheSize > 0 {
		// Only fails for non-positive sizes.
		c.cache, _ = lru.New[string, string](c.cacheSize)
	}

	return c
}

// Strategies returns the kinds of the chain's strategies in order.
func (c *Chain) Strategies() []StrategyKind {
	kinds := make([]StrategyKind, len(c.strategies))
	for i, s := range c.strategies {
		kinds[i] = s.Kind
	}
	return kinds
}

// Resolve returns the first match of the chain. Strategies after the first
// hit are never attempted. Lookup failures are logged and count as a miss
// for that strategy, so Resolve itself never fails.
func (c *Chain) Resolve(ctx context.Context, item Item) Result {
	var miss Result
	var errs []error
	for _, s := range c.strategies {
		if ctx.Err() != nil {
			return Result{}
		}

		query, ok := s.Query(item)
		if !ok {
			continue
		}

		uri, err := c.lookup(ctx, query)
		if err != nil {
			kind := Failure(err)
			c.logger.Warn("Lookup failed",
				"strategy", s.Kind,
				"key", item.Key,
				"label", item.Label,
				"failure", kind,
				"error", err)
			if miss.Failure != Fatal {
				miss.Failure = kind
			}
			errs = append(errs, err)
			continue
		}
		if uri != "" {
			return Result{URI: uri, Strategy: s.Kind}
		}
	}
	miss.Err = errors.Join(errs...)
	return miss
}

// lookup runs query and returns the first solution's item IRI, or "" for no
// solutions. Definitive answers are cached; failures are not.
func (c *Chain) lookup(ctx context.Context, query string) (string, error) {
	if c.cache != nil {
		if uri, ok := c.cache.Get(query); ok {
			return uri, nil
		}
	}

	bindings, err := c.querier.Select(ctx, query)
	if err != nil {
		return "", err
	}

	uri := ""
	if len(bindings) > 0 {
		uri, err = itemIRI(bindings[0])
		if err != nil {
			return "", err
		}
	}

	if c.cache != nil {
		c.cache.Add(query, uri)
	}
	return uri, nil
}

func itemIRI(b Binding) (string, error) {
	v, ok := b[itemVar]
	if !ok {
		return "", fatal(fmt.Errorf("solution has no ?%s binding", itemVar))
	}
	if v.Type != "uri" {
		return "", fatal(fmt.Errorf("?%s is a %s, not an IRI", itemVar, v.Type))
	}
	if _, err := rdf.NewIRI(v.Value); err != nil {
		return "", fatal(fmt.Errorf("invalid ?%s IRI %q: %w", itemVar, v.Value, err))
	}
	return v.Value, nil
}
