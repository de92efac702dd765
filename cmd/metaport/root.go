package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "metaport",
	Short: "Metadata export and intro-marker tooling for your media library",
	Long: `metaport - metadata export and intro-marker tooling

Exports NFO files and artwork from the library catalog, and backs up,
restores, and migrates intro markers between servers.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: auto-discover)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("metaport {{.Version}}\n")
}
