package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/metaport/internal/markers"
	"github.com/vmunix/metaport/internal/progress"
)

func init() {
	markersCmd := &cobra.Command{
		Use:   "markers",
		Short: "Back up, restore, and migrate intro markers",
	}

	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up intro markers to JSON",
		Long: `Extracts intro markers from the scoped episodes and writes them to a
centralized JSON document, or to one sidecar per episode with
--per-episode. Re-running against an existing document upserts entries
instead of duplicating them.`,
		RunE: runMarkersBackup,
	}
	backupCmd.Flags().String("out", "", "Centralized document path (overrides config)")
	backupCmd.Flags().Bool("per-episode", false, "Write one sidecar per episode")
	backupCmd.Flags().String("sidecar-root", "", "Mirror sidecars under this root instead of next to media")
	backupCmd.Flags().Int64Slice("series", nil, "Series IDs to back up (overrides config)")
	backupCmd.Flags().Int64Slice("library", nil, "Library IDs to back up (overrides config)")

	restoreCmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore intro markers from a backup",
		Long: `Reads a centralized backup document (--from) or scans folders for
per-episode sidecars (--scan), resolves each entry back to a catalog
episode, and reapplies its markers. Episodes that already carry markers
are skipped unless --overwrite is set.`,
		RunE: runMarkersRestore,
	}
	restoreCmd.Flags().String("from", "", "Centralized backup document to restore from")
	restoreCmd.Flags().StringSlice("scan", nil, "Folders to scan recursively for *.intro.json sidecars")
	restoreCmd.Flags().Bool("overwrite", false, "Overwrite markers on episodes that already have them")

	exportMigrationCmd := &cobra.Command{
		Use:   "export-migration",
		Short: "Export all markers for server migration",
		Long: `Writes a migration document covering every episode with markers in the
catalog. Internal IDs are stripped so the document can be imported into
a different server.`,
		RunE: runMarkersExportMigration,
	}
	exportMigrationCmd.Flags().String("out", "", "Migration document path (required)")
	_ = exportMigrationCmd.MarkFlagRequired("out")

	importMigrationCmd := &cobra.Command{
		Use:   "import-migration",
		Short: "Import markers from a migration document",
		Long: `Reads a migration document and matches each row to a local episode by
provider IDs and season/episode numbers. Rows that match nothing are
counted, never fatal.`,
		RunE: runMarkersImportMigration,
	}
	importMigrationCmd.Flags().String("from", "", "Migration document path (required)")
	importMigrationCmd.Flags().Bool("overwrite", false, "Overwrite markers on episodes that already have them")
	_ = importMigrationCmd.MarkFlagRequired("from")

	markersCmd.AddCommand(backupCmd)
	markersCmd.AddCommand(restoreCmd)
	markersCmd.AddCommand(exportMigrationCmd)
	markersCmd.AddCommand(importMigrationCmd)
	rootCmd.AddCommand(markersCmd)
}

func newMarkersService(a *app) *markers.Service {
	return markers.NewService(a.catalog, progress.NewTracker(500), a.log)
}

func runMarkersBackup(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	opts := a.cfg.BackupOptions()
	flags := cmd.Flags()
	if flags.Changed("out") {
		opts.DestinationPath, _ = flags.GetString("out")
	}
	if flags.Changed("per-episode") {
		opts.PerEpisode, _ = flags.GetBool("per-episode")
	}
	if flags.Changed("sidecar-root") {
		opts.SidecarRoot, _ = flags.GetString("sidecar-root")
	}
	if flags.Changed("series") {
		opts.SeriesIDs, _ = flags.GetInt64Slice("series")
	}
	if flags.Changed("library") {
		opts.LibraryIDs, _ = flags.GetInt64Slice("library")
	}

	ctx, stop := runContext()
	defer stop()

	svc := newMarkersService(a)
	stopWatch := watchProgress(svc.Tracker())
	result, err := svc.Backup(ctx, opts)
	stopWatch()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(result.Message)
	fmt.Printf("  episodes:  %d\n", result.TotalItems)
	fmt.Printf("  backed up: %d\n", result.ItemsBackedUp)
	if result.ItemsFailed > 0 {
		fmt.Printf("  failed:    %d\n", result.ItemsFailed)
	}
	printWarnings(result.ValidationWarnings)

	if !result.Success && !result.Cancelled {
		return fmt.Errorf("backup finished with errors")
	}
	return nil
}

func runMarkersRestore(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	from, _ := cmd.Flags().GetString("from")
	scanRoots, _ := cmd.Flags().GetStringSlice("scan")
	overwrite, _ := cmd.Flags().GetBool("overwrite")

	opts := markers.RestoreOptions{
		DocumentPath:      from,
		ScanRoots:         scanRoots,
		OverwriteExisting: overwrite || a.cfg.Markers.OverwriteExisting,
		Match:             a.cfg.MatchOptions(),
	}

	ctx, stop := runContext()
	defer stop()

	svc := newMarkersService(a)
	stopWatch := watchProgress(svc.Tracker())
	result, err := svc.Restore(ctx, opts)
	stopWatch()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(result.Message)
	fmt.Printf("  restored:  %d\n", result.ItemsRestored)
	fmt.Printf("  skipped:   %d\n", result.ItemsSkipped)
	fmt.Printf("  not found: %d\n", result.ItemsNotFound)
	if len(result.Errors) > 0 {
		fmt.Printf("\nErrors (%d):\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	if !result.Success && !result.Cancelled {
		return fmt.Errorf("restore finished with errors")
	}
	return nil
}

func runMarkersExportMigration(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	out, _ := cmd.Flags().GetString("out")

	ctx, stop := runContext()
	defer stop()

	svc := newMarkersService(a)
	stopWatch := watchProgress(svc.Tracker())
	result, err := svc.ExportMigration(ctx, out)
	stopWatch()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(result.Message)
	fmt.Printf("  episodes scanned: %d\n", result.TotalEpisodes)
	fmt.Printf("  rows exported:    %d\n", result.RowsExported)
	return nil
}

func runMarkersImportMigration(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	from, _ := cmd.Flags().GetString("from")
	overwrite, _ := cmd.Flags().GetBool("overwrite")

	ctx, stop := runContext()
	defer stop()

	svc := newMarkersService(a)
	stopWatch := watchProgress(svc.Tracker())
	result, err := svc.ImportMigration(ctx, from, overwrite, a.cfg.MatchOptions())
	stopWatch()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(result.Message)
	fmt.Printf("  imported:  %d\n", result.ItemsImported)
	fmt.Printf("  skipped:   %d\n", result.ItemsSkipped)
	fmt.Printf("  not found: %d\n", result.ItemsNotFound)
	return nil
}
