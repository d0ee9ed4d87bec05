package cmd

import (
	"context"
	"fmt"

	"github.com/shanonplace/contentful-find-case-sensitive/pkg/config"
	"github.com/shanonplace/contentful-find-case-sensitive/pkg/contentful"
	"github.com/shanonplace/contentful-find-case-sensitive/pkg/log"
	"github.com/urfave/cli/v3"
)

// LocalesCommand creates the locales command
func LocalesCommand() *cli.Command {
	return &cli.Command{
		Name:  "locales",
		Usage: "List the locales configured in the target environment",
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Bool("debug") {
				log.SetGlobalDebug(true)
			}
			return listLocales(ctx, c.String("config"))
		},
	}
}

// listLocales prints the environment's locales, one per line
func listLocales(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	locales, err := contentful.NewClient(cfg).Locales(ctx)
	if err != nil {
		return fmt.Errorf("listing locales: %w", err)
	}

	if len(locales) == 0 {
		fmt.Println("No locales configured")
		return nil
	}

	for _, l := range locales {
		fmt.Println(formatLocale(l))
	}
	return nil
}
