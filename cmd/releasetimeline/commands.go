package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"ReleaseTimeline/internal/app"
	"ReleaseTimeline/internal/config"
	"ReleaseTimeline/internal/infrastructure/storage"
	"ReleaseTimeline/internal/ingest"
)

func newRootCommand(cfg config.Config, logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "releasetimeline",
		Short:         "Ingest AI release data and community reviews into the timeline store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newScrapeCommand(cfg, logger),
		newSeedCommand(cfg, logger),
		newStatusCommand(cfg, logger),
		newReportCommand(cfg, logger),
	)

	return root
}

// withApp opens the application for one command invocation and closes it
// afterwards.
func withApp(cfg config.Config, logger *slog.Logger, run func(ctx context.Context, application *app.Application) error) error {
	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	return run(context.Background(), application)
}

func newScrapeCommand(cfg config.Config, logger *slog.Logger) *cobra.Command {
	kinds := []string{
		string(ingest.KindCatalog),
		string(ingest.KindAnnouncements),
		string(ingest.KindBlogReviews),
		string(ingest.KindReddit),
		string(ingest.KindX),
		string(ingest.KindAll),
	}

	cmd := &cobra.Command{
		Use:       "scrape [kind]",
		Short:     "Run one scrape kind (default: all)",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := ingest.KindAll
			if len(args) > 0 {
				kind = ingest.Kind(args[0])
			}

			return withApp(cfg, logger, func(ctx context.Context, application *app.Application) error {
				result, err := application.Pipeline().Run(ctx, kind)
				if err != nil {
					return err
				}

				fmt.Printf("added: %d\nupdated: %d\n", result.Added, result.Updated)
				for _, msg := range result.Errors {
					fmt.Printf("error: %s\n", msg)
				}
				return nil
			})
		},
	}

	return cmd
}

func newSeedCommand(cfg config.Config, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install the curated scraper-source list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, logger, func(ctx context.Context, application *app.Application) error {
				inserted, err := application.Store().SeedSources(ctx, storage.DefaultSources)
				if err != nil {
					return err
				}
				fmt.Printf("seeded %d of %d sources\n", inserted, len(storage.DefaultSources))
				return nil
			})
		},
	}
}

func newStatusCommand(cfg config.Config, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show store row counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, logger, func(ctx context.Context, application *app.Application) error {
				counts, err := application.Store().Counts(ctx)
				if err != nil {
					return err
				}

				t := table.NewWriter()
				t.SetOutputMirror(os.Stdout)
				t.AppendHeader(table.Row{"Releases", "Reviews", "Coding models"})
				t.AppendRow(table.Row{counts.Releases, counts.Reviews, counts.CodingModels})
				t.Render()
				return nil
			})
		},
	}
}

func newReportCommand(cfg config.Config, logger *slog.Logger) *cobra.Command {
	report := &cobra.Command{
		Use:   "report",
		Short: "Reporting helpers",
	}

	coding := &cobra.Command{
		Use:   "coding",
		Short: "List coding-related releases, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, logger, func(ctx context.Context, application *app.Application) error {
				releases, err := application.Store().FindCodingReleases(ctx)
				if err != nil {
					return err
				}

				t := table.NewWriter()
				t.SetOutputMirror(os.Stdout)
				t.AppendHeader(table.Row{"Name", "Company", "Category", "Released", "Parameters"})
				for _, release := range releases {
					t.AppendRow(table.Row{
						release.Name,
						release.Company,
						release.Category,
						release.ReleaseDate.Format("2006-01-02"),
						release.Parameters,
					})
				}
				t.Render()
				return nil
			})
		},
	}

	report.AddCommand(coding)
	return report
}
