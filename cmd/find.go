package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shanonplace/contentful-find-case-sensitive/pkg/config"
	"github.com/shanonplace/contentful-find-case-sensitive/pkg/contentful"
	"github.com/shanonplace/contentful-find-case-sensitive/pkg/log"
	"github.com/shanonplace/contentful-find-case-sensitive/pkg/search"
	"github.com/urfave/cli/v3"
)

// FindCommand creates the find command
func FindCommand() *cli.Command {
	return &cli.Command{
		Name:      "find",
		Usage:     "Find exact case-sensitive occurrences of a term",
		ArgsUsage: "<term> [locale]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output matches as JSON",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Entries requested per page",
				Value: search.DefaultPageSize,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Bool("debug") {
				log.SetGlobalDebug(true)
			}

			term := c.Args().Get(0)
			if term == "" {
				return fmt.Errorf("missing search term\n\nusage: contentful-find find <term> [locale]")
			}
			locale := c.Args().Get(1)
			if locale == "" {
				locale = search.DefaultLocale
			}

			return runFind(ctx, c.String("config"), term, locale, c.Int("limit"), c.Bool("json"))
		},
	}
}

// runFind loads configuration, executes the search and prints the results
func runFind(ctx context.Context, configPath, term, locale string, pageSize int, asJSON bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	client := contentful.NewClient(cfg)
	svc := search.NewService(client, cfg, pageSize)

	matches, err := svc.Search(ctx, term, locale)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	}

	printMatches(term, locale, matches)
	return nil
}
