package cmd

import (
	"context"
	"fmt"

	"github.com/shanonplace/contentful-find-case-sensitive/pkg/config"
	"github.com/urfave/cli/v3"
)

// InitCommand creates the init command
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a sample configuration file",
		Action: func(ctx context.Context, c *cli.Command) error {
			return initConfig(c.String("config"))
		},
	}
}

// initConfig writes the sample configuration file
func initConfig(configPath string) error {
	if err := config.SaveTemplate(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("Configuration initialized at %s\n", configPath)
	return nil
}
