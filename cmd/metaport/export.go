package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/metaport/internal/export"
	"github.com/vmunix/metaport/internal/progress"
)

func init() {
	rootCmd.AddCommand(newExportCmd())
}

func newExportCmd() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export NFO files and artwork",
		Long: `Exports NFO metadata files and artwork images for the configured scope.

Scope comes from the [export] config section unless overridden with
--library or --item. Individual series expand to their seasons and
episodes; collections expand to their members.`,
		RunE: runExport,
	}

	exportCmd.Flags().Int64Slice("library", nil, "Library IDs to export (overrides config)")
	exportCmd.Flags().Int64Slice("item", nil, "Individual item IDs to export (overrides config)")
	exportCmd.Flags().String("output", "", "Custom export root (mirrors the library tree)")
	exportCmd.Flags().Bool("dry-run", false, "Log intended writes without touching disk")
	exportCmd.Flags().Bool("overwrite", false, "Overwrite existing NFO files and artwork")
	exportCmd.Flags().Bool("hardlinks", false, "Hardlink artwork under the custom export root")
	exportCmd.Flags().Bool("collections", false, "Include collections in library scope")
	exportCmd.Flags().Int("parallel", 0, "Worker count (1-16, overrides config)")

	return exportCmd
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	scope := a.cfg.ExportScope()
	opts := a.cfg.ExportOptions()
	applyExportFlags(cmd, &scope, &opts)

	ctx, stop := runContext()
	defer stop()

	tracker := progress.NewTracker(1000)
	pipeline := export.NewPipeline(a.catalog, tracker, a.log)

	if opts.DryRun {
		fmt.Println("Dry run: no files will be written.")
	}

	stopWatch := watchProgress(tracker)
	result, err := pipeline.Export(ctx, scope, opts)
	stopWatch()
	if err != nil {
		if errors.Is(err, export.ErrNothingEnabled) {
			return fmt.Errorf("nothing to do: enable nfo and/or artwork in the [export] config section")
		}
		return err
	}

	printExportResult(result)
	if !result.Success && !result.Cancelled {
		return fmt.Errorf("export finished with errors")
	}
	return nil
}

// applyExportFlags overlays command-line flags onto the configured scope
// and options. Only flags the user actually set are applied.
func applyExportFlags(cmd *cobra.Command, scope *export.Scope, opts *export.Options) {
	flags := cmd.Flags()

	if flags.Changed("library") {
		ids, _ := flags.GetInt64Slice("library")
		scope.LibraryIDs = ids
		scope.ItemIDs = nil
	}
	if flags.Changed("item") {
		ids, _ := flags.GetInt64Slice("item")
		scope.ItemIDs = ids
	}
	if flags.Changed("output") {
		opts.CustomExportPath, _ = flags.GetString("output")
	}
	if flags.Changed("dry-run") {
		opts.DryRun, _ = flags.GetBool("dry-run")
	}
	if flags.Changed("overwrite") {
		overwrite, _ := flags.GetBool("overwrite")
		opts.NFO.Overwrite = overwrite
		opts.Artwork.Overwrite = overwrite
	}
	if flags.Changed("hardlinks") {
		opts.UseHardlinks, _ = flags.GetBool("hardlinks")
	}
	if flags.Changed("collections") {
		opts.IncludeCollections, _ = flags.GetBool("collections")
	}
	if flags.Changed("parallel") {
		opts.MaxParallel, _ = flags.GetInt("parallel")
	}
}

func printExportResult(r *export.Result) {
	fmt.Println()
	fmt.Println(r.Message)
	fmt.Printf("  items:    %d\n", r.TotalItems)
	fmt.Printf("  exported: %d\n", r.ItemsExported)

	if len(r.Errors) > 0 {
		fmt.Printf("\nErrors (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
}
