package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/mapstore/internal/changes"
	"github.com/custodia-labs/mapstore/internal/mapdoc"
)

var diffPatch bool

var diffCmd = &cobra.Command{
	Use:   "diff <old-map> <new-map>",
	Short: "Show the changes between two versions of a map",
	Long: `Compare two versions of a map and list what was deleted and added
per scan layer and section. With --patch the changes are printed as a
unified diff.`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().BoolVar(&diffPatch, "patch", false, "print the changes as a unified diff")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	oldDoc, err := snapshot(cmd, args[0])
	if err != nil {
		return err
	}
	newDoc, err := snapshot(cmd, args[1])
	if err != nil {
		return err
	}

	ledger, err := mapdoc.Diff(oldDoc, newDoc)
	if err != nil {
		return err
	}
	if ledger.IsEmpty() {
		cmd.Println("No changes")
		return nil
	}

	patch, err := ledger.Patch()
	if err != nil {
		return err
	}
	if diffPatch {
		cmd.Print(string(patch))
		return nil
	}

	cmd.Printf("changed: %s\n", joinComponents(mapdoc.ChangedComponents(oldDoc, newDoc), ", "))
	for _, scanType := range ledger.ScanTypes() {
		cmd.Printf("scan %-12s -%d +%d points, -%d +%d lines\n", scanLabel(scanType),
			len(ledger.Points(scanType, changes.Deletions)), len(ledger.Points(scanType, changes.Additions)),
			len(ledger.Segments(scanType, changes.Deletions)), len(ledger.Segments(scanType, changes.Additions)))
	}
	for _, section := range ledger.Sections() {
		cmd.Printf("%-17s -%d +%d lines\n", section,
			ledger.Lines(section, changes.Deletions).Len(), ledger.Lines(section, changes.Additions).Len())
	}

	stats, err := changes.ParsePatchStats(patch)
	if err != nil {
		return err
	}
	cmd.Printf("%d sections changed, %d deletions, %d additions\n", stats.Files, stats.Deleted, stats.Added)
	return nil
}

func snapshot(cmd *cobra.Command, path string) (*mapdoc.Document, error) {
	m, err := openMap(cmd.Context(), path)
	if err != nil {
		return nil, err
	}
	defer m.Close()
	return m.Snapshot(), nil
}
