package main

import (
	"context"
	"fmt"
	"time"

	"github.com/c360studio/gamegraph/dataset"
	"github.com/c360studio/gamegraph/serializer"
	"github.com/spf13/cobra"
)

func serializeCmd(a *app) *cobra.Command {
	var (
		watch    bool
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serialize",
		Short: "Write the dataset as an RDF graph document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("dataset") {
				a.cfg.Dataset.Path, _ = flags.GetString("dataset")
			}
			if flags.Changed("format") {
				a.cfg.Output.Format, _ = flags.GetString("format")
			}

			format, err := a.cfg.GraphFormat()
			if err != nil {
				return err
			}
			path, err := dataset.Locate(a.cfg.Dataset.Path, a.cfg.Dataset.Pattern)
			if err != nil {
				return err
			}

			output := a.cfg.GraphPath()
			if flags.Changed("output") {
				output, _ = flags.GetString("output")
			}

			job := serializer.Job{DatasetPath: path, OutputPath: output, Format: format}
			s := serializer.New(serializer.WithLogger(a.logger))

			run := func(ctx context.Context) error {
				stats, err := s.Run(ctx, job)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d games to %s (%d skipped)\n", stats.Games, output, stats.Skipped)
				return nil
			}

			if err := run(cmd.Context()); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			return serializer.Watch(cmd.Context(), path, debounce, a.logger, run)
		},
	}

	cmd.Flags().String("dataset", "", "Dataset CSV file or directory (default from config)")
	cmd.Flags().StringP("output", "o", "", "Output file (default from config)")
	cmd.Flags().String("format", "", "Output format: turtle or ntriples (default from config)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-serialize whenever the dataset changes")
	cmd.Flags().DurationVar(&debounce, "debounce", serializer.DefaultDebounce, "Quiet period before a change triggers a run")

	return cmd
}
