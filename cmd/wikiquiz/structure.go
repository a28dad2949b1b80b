package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"wikiquiz/internal/config"
	"wikiquiz/internal/domain"
	"wikiquiz/internal/scraper"

	"github.com/spf13/cobra"
)

// NewStructureCommand prints the structured content of a URL or a saved HTML file.
func NewStructureCommand(output *string) *cobra.Command {
	var headingsOnly bool

	cmd := &cobra.Command{
		Use:   "structure <url|file>",
		Short: "Print the sections of a Wikipedia article",
		Long:  "Fetches the article (or reads a saved HTML file) and prints its structured sections without touching the database.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]

			var fetcher domain.MarkupFetcher
			if isRemote(source) {
				cfg, err := config.LoadConfig()
				if err != nil {
					return err
				}
				fetcher = scraper.NewHTTPFetcher(cfg.Scraper)
			}

			content, err := structureSource(cmd.Context(), fetcher, scraper.NewStructurer(), source)
			if err != nil {
				return err
			}
			if headingsOnly {
				return writeOutput(cmd.OutOrStdout(), *output, map[string]interface{}{
					"title":    content.Title,
					"sections": content.Headings(),
				})
			}
			return writeOutput(cmd.OutOrStdout(), *output, content)
		},
	}
	cmd.Flags().BoolVar(&headingsOnly, "headings", false, "print only the title and section headings")
	return cmd
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func structureSource(ctx context.Context, fetcher domain.MarkupFetcher, structurer domain.DocumentStructurer, source string) (*domain.StructuredContent, error) {
	var r io.Reader
	if isRemote(source) {
		if fetcher == nil {
			return nil, fmt.Errorf("no fetcher configured for %s", source)
		}
		if ctx == nil {
			ctx = context.Background()
		}
		markup, err := fetcher.Fetch(ctx, source)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(markup)
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", source, err)
		}
		defer f.Close()
		r = f
	}
	return structurer.Structure(r)
}
