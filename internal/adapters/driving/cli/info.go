package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/mapstore/internal/core/domain"
)

var infoObjects bool

var infoCmd = &cobra.Command{
	Use:   "info <map-file>",
	Short: "Show what a map file contains",
	Long: `Read a map file and print its version, category, scan layers,
objects and info sections.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoObjects, "objects", false, "list every active object")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	m, err := openMap(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer m.Close()

	lm := m.Lock()
	defer lm.Unlock()
	doc := lm.Document()
	fp := lm.Fingerprint()

	cmd.Printf("File:      %s\n", fp.FileName)
	cmd.Printf("Category:  %s\n", lm.Category())
	cmd.Printf("Checksum:  %s\n", fp.ChecksumString())
	cmd.Printf("Size:      %d bytes\n", fp.Size)
	if !fp.ModTime.IsZero() {
		cmd.Printf("Modified:  %s\n", fp.ModTime.Format(time.RFC3339))
	}
	if o := lm.Origin(); o.Has {
		cmd.Printf("Origin:    %.6f %.6f %.2f\n", o.LatLong.X(), o.LatLong.Y(), o.Altitude)
	}
	cmd.Println()

	cmd.Println("[Scans]")
	for _, s := range lm.Scans() {
		cmd.Printf("  %-12s %7d points %6d lines  %s\n",
			scanLabel(s.ScanType), s.NumPoints, s.NumLines, formatBounds(s))
	}
	cmd.Println()

	objects := lm.Objects()
	cmd.Println("[Objects]")
	cmd.Printf("  active:   %d\n", len(objects))
	cmd.Printf("  inactive: %d\n", doc.InactiveObjects().Len())
	cmd.Printf("  children: %d\n", doc.ChildObjects().Len())
	if infoObjects {
		for _, obj := range objects {
			cmd.Printf("  %s %q\n", obj.Type, obj.Name)
		}
	}
	cmd.Println()

	cmd.Println("[Info]")
	for _, name := range doc.Info().Names() {
		lines, err := lm.Info(name)
		if err != nil || len(lines) == 0 {
			continue
		}
		cmd.Printf("  %-16s %d lines\n", name, len(lines))
	}
	if rest := doc.Remainder(); len(rest) > 0 {
		cmd.Printf("  %-16s %d lines\n", "(unrecognised)", len(rest))
	}
	return nil
}

func scanLabel(scanType string) string {
	switch scanType {
	case domain.DefaultScanType:
		return "default"
	case domain.SummaryScanType:
		return "summary"
	}
	return scanType
}

func formatBounds(s domain.ScanSummary) string {
	if s.NumPoints == 0 {
		return ""
	}
	b := s.PointBounds
	return fmt.Sprintf("[%g %g] - [%g %g]", b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y())
}
