package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	librariesCmd := &cobra.Command{
		Use:   "libraries",
		Short: "List libraries in the catalog",
		Long:  "Lists the libraries known to the catalog with their IDs, for use with --library flags.",
		RunE:  runLibraries,
	}

	seriesCmd := &cobra.Command{
		Use:   "series",
		Short: "List series in the catalog",
		Long:  "Lists the series known to the catalog with their IDs, for use with --series flags.",
		RunE:  runSeries,
	}

	rootCmd.AddCommand(librariesCmd)
	rootCmd.AddCommand(seriesCmd)
}

func runLibraries(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	libs, err := a.catalog.Libraries()
	if err != nil {
		return fmt.Errorf("list libraries: %w", err)
	}

	if len(libs) == 0 {
		fmt.Println("No libraries in catalog.")
		return nil
	}

	fmt.Printf("Libraries (%d):\n\n", len(libs))
	fmt.Printf("  %-4s %-30s %-10s %s\n", "ID", "NAME", "TYPE", "PATH")
	fmt.Println("  " + strings.Repeat("-", 80))
	for _, lib := range libs {
		fmt.Printf("  %-4d %-30s %-10s %s\n", lib.ID, truncate(lib.Name, 30), lib.CollectionType, lib.Path)
	}
	return nil
}

func runSeries(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	series, err := a.catalog.AllSeries()
	if err != nil {
		return fmt.Errorf("list series: %w", err)
	}

	if len(series) == 0 {
		fmt.Println("No series in catalog.")
		return nil
	}

	fmt.Printf("Series (%d):\n\n", len(series))
	fmt.Printf("  %-4s %-40s %-6s %-12s %s\n", "ID", "TITLE", "YEAR", "STATUS", "TVDB")
	fmt.Println("  " + strings.Repeat("-", 75))
	for _, s := range series {
		year := ""
		if s.Year > 0 {
			year = fmt.Sprintf("%d", s.Year)
		}
		fmt.Printf("  %-4d %-40s %-6s %-12s %s\n",
			s.ID, truncate(s.Name, 40), year, s.Status, s.ProviderID("Tvdb"))
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
