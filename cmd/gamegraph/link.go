package main

import (
	"fmt"
	"time"

	"github.com/c360studio/gamegraph/batch"
	"github.com/c360studio/gamegraph/config"
	"github.com/c360studio/gamegraph/dataset"
	"github.com/c360studio/gamegraph/export"
	"github.com/c360studio/gamegraph/reconcile"
	"github.com/c360studio/gamegraph/slug"
	"github.com/c360studio/gamegraph/vocabulary/boardgame"
	"github.com/spf13/cobra"
)

// linkKind selects which entities a link run reconciles.
type linkKind string

const (
	linkAgents linkKind = "agents"
	linkGames  linkKind = "games"
)

func linkCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Reconcile dataset entities against Wikidata",
		Long: `Link runs look up each entity on the SPARQL endpoint and append
owl:sameAs triples to numbered batch files. An interrupted run resumes
with --start-from.`,
	}

	flags := cmd.PersistentFlags()
	flags.String("dataset", "", "Dataset CSV file or directory (default from config)")
	flags.String("endpoint", "", "SPARQL endpoint URL (default from config)")
	flags.String("out-dir", "", "Batch file directory (default from config)")
	flags.Int("start-from", 0, "Worklist index to resume from")
	flags.Int("batch-size", 0, "Entities per batch file (default from config)")
	flags.Duration("delay", 0, "Pause between lookups (default from config)")
	flags.String("metrics-textfile", "", "Write run metrics to this file (default from config)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "agents",
			Short: "Link designers and artists, most credited first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runLink(cmd, a, linkAgents)
			},
		},
		&cobra.Command{
			Use:   "games",
			Short: "Link games, most rated first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runLink(cmd, a, linkGames)
			},
		},
	)

	return cmd
}

// applyLinkFlags overrides the configuration with the flags the user set.
func applyLinkFlags(cmd *cobra.Command, cfg *config.Config) (outDir string, err error) {
	flags := cmd.Flags()
	if flags.Changed("dataset") {
		cfg.Dataset.Path, _ = flags.GetString("dataset")
	}
	if flags.Changed("endpoint") {
		cfg.Reconcile.Endpoint, _ = flags.GetString("endpoint")
	}
	if flags.Changed("start-from") {
		cfg.Batch.StartFrom, _ = flags.GetInt("start-from")
	}
	if flags.Changed("batch-size") {
		cfg.Batch.Size, _ = flags.GetInt("batch-size")
	}
	if flags.Changed("delay") {
		cfg.Batch.Delay, _ = flags.GetDuration("delay")
	}
	if flags.Changed("metrics-textfile") {
		cfg.Metrics.Textfile, _ = flags.GetString("metrics-textfile")
	}
	if flags.Changed("out-dir") {
		outDir, _ = flags.GetString("out-dir")
	}
	return outDir, cfg.Validate()
}

func runLink(cmd *cobra.Command, a *app, kind linkKind) error {
	ctx := cmd.Context()
	cfg := a.cfg
	logger := a.logger.With("run", string(kind))

	outDir, err := applyLinkFlags(cmd, cfg)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	path, err := dataset.Locate(cfg.Dataset.Path, cfg.Dataset.Pattern)
	if err != nil {
		return err
	}
	ds, err := dataset.Load(path)
	if err != nil {
		return err
	}
	logger.Info("Dataset loaded", "path", path, "rows", ds.Len())

	if err := reconcile.Probe(ctx, cfg.Reconcile.Endpoint, cfg.Reconcile.ProbeTimeout); err != nil {
		return err
	}

	client := reconcile.NewClient(cfg.Reconcile.Endpoint,
		reconcile.WithUserAgent(cfg.Reconcile.UserAgent),
		reconcile.WithTimeout(cfg.Reconcile.Timeout),
		reconcile.WithLogger(logger))
	logger.Info("Endpoint reachable", "endpoint", client.Endpoint())
	chainOpts := []reconcile.ChainOption{
		reconcile.WithChainLogger(logger),
		reconcile.WithCacheSize(cfg.Reconcile.CacheSize),
	}

	var (
		chain *reconcile.Chain
		items []batch.Item
		bcfg  batch.Config
	)
	switch kind {
	case linkAgents:
		chain = reconcile.AgentChain(client, cfg.Reconcile.Occupations, chainOpts...)
		items = agentItems(dataset.RankAgents(ds.Rows()))
		bcfg = cfg.AgentBatch()
	case linkGames:
		chain = reconcile.GameChain(client, cfg.Reconcile.GameTypes, chainOpts...)
		items = gameItems(dataset.RankGames(ds.Rows()))
		bcfg = cfg.GameBatch()
	default:
		return fmt.Errorf("unknown link kind %q", kind)
	}
	if outDir != "" {
		bcfg.Dir = outDir
	}

	logger.Info("Worklist ready", "entities", len(items), "strategies", chain.Strategies())
	for i, item := range items[:min(5, len(items))] {
		logger.Debug("Top entity", "rank", i+1, "label", item.Label, "weight", item.Weight)
	}

	runner, err := batch.NewRunner(bcfg, chain, batch.WithLogger(logger))
	if err != nil {
		return err
	}

	summary, runErr := runner.Run(ctx, items)

	if cfg.Metrics.Textfile != "" {
		if err := runner.Metrics().WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn("Failed to write metrics", "path", cfg.Metrics.Textfile, "error", err)
		}
	}

	out := cmd.OutOrStdout()
	if runErr != nil && ctx.Err() != nil {
		fmt.Fprintf(out, "Interrupted after %d lookups (%d found). Resume with --start-from %d\n",
			summary.Processed, summary.Found, summary.Next)
		return nil
	}
	if runErr != nil {
		return runErr
	}

	fmt.Fprintf(out, "Found %d links in %d lookups across %d files in %s (run %s)\n",
		summary.Found, summary.Processed, summary.FilesOpened,
		summary.Duration.Round(time.Second), summary.RunID)
	if summary.Failed > 0 {
		fmt.Fprintf(out, "%d lookups failed and were recorded as misses\n", summary.Failed)
	}
	return nil
}

// agentItems builds the agent worklist. Agents whose name normalizes to
// nothing but the fallback keep their place but have no subject, so the
// runner skips them without a lookup.
func agentItems(agents []dataset.Agent) []batch.Item {
	items := make([]batch.Item, len(agents))
	for i, ag := range agents {
		var subject export.Term
		if slug.Significant(ag.Name) {
			subject, _ = boardgame.AgentRef(ag.Name)
		}
		items[i] = batch.Item{
			Key:     ag.Name,
			Label:   ag.Name,
			Subject: string(subject),
			Weight:  ag.Count,
		}
	}
	return items
}

// gameItems builds the game worklist keyed by game_id.
func gameItems(games []dataset.Game) []batch.Item {
	items := make([]batch.Item, len(games))
	for i, g := range games {
		subject, _ := boardgame.GameRef(g.ID)
		items[i] = batch.Item{
			Key:     g.ID,
			Label:   g.Name,
			Subject: string(subject),
			Weight:  g.RatingCount,
		}
	}
	return items
}
