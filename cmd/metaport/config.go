package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/metaport/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default config file",
	Long:  "Writes a commented default config.toml. Without a path argument the standard config location is used.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate a config file",
	Long:  "Validates config syntax, required fields, and environment variable substitution without running anything.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configTestCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}

	if err := config.WriteDefault(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("Wrote default config to %s\n", path)
	fmt.Println("Edit it to point database.path at your catalog, then run 'metaport config test'.")
	return nil
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return fmt.Errorf("no config file found")
		}
		path = found
	}

	fmt.Printf("Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		printConfigErrors(&config.ConfigError{Path: path, Errors: errs})
		return errors.New("configuration invalid")
	}

	printConfigSummary(cfg)
	printWarnings(cfg.Warnings())
	fmt.Println("\nConfiguration valid!")
	return nil
}

func printConfigErrors(e *config.ConfigError) {
	fmt.Println("Validation errors:")
	for _, err := range e.Errors {
		fmt.Printf("  - %s\n", err)
	}
	fmt.Println()
}

func printConfigSummary(cfg *config.Config) {
	fmt.Println("Configuration Summary:")
	fmt.Printf("  Database:  %s (log: %s)\n", cfg.Database.Path, cfg.LogLevel)

	outputs := []string{}
	if cfg.Export.Nfo {
		outputs = append(outputs, "nfo")
	}
	if cfg.Export.Artwork {
		outputs = append(outputs, "artwork")
	}
	if len(outputs) == 0 {
		outputs = append(outputs, "none")
	}
	fmt.Printf("  Export:    %s", strings.Join(outputs, ", "))
	if cfg.Export.CustomExportPath != "" {
		fmt.Printf(" -> %s", cfg.Export.CustomExportPath)
	}
	if cfg.Export.DryRun {
		fmt.Print(" (dry run)")
	}
	fmt.Println()

	if cfg.Markers.PerEpisode {
		dest := "next to media"
		if cfg.Markers.SidecarRoot != "" {
			dest = cfg.Markers.SidecarRoot
		}
		fmt.Printf("  Markers:   per-episode sidecars (%s)\n", dest)
	} else if cfg.Markers.BackupPath != "" {
		fmt.Printf("  Markers:   %s\n", cfg.Markers.BackupPath)
	}

	matching := []string{"provider ids", "paths", "season/episode"}
	if cfg.Markers.UseProviderEpisodeID {
		matching = append([]string{"episode ids"}, matching...)
	}
	if cfg.Markers.FuzzySeriesNames {
		matching = append(matching, "fuzzy names")
	}
	fmt.Printf("  Matching:  %s\n", strings.Join(matching, ", "))
}
