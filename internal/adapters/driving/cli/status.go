package cli

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/mapstore/internal/core/domain"
)

var (
	statusRecord bool
	statusForget bool
)

var statusCmd = &cobra.Command{
	Use:   "status [map-file]...",
	Short: "Compare map files with their recorded versions",
	Long: `Compare each map file with the version recorded when it was last
read or written by mapstore. Without arguments every recorded map is listed.

Use --record to store the current version and --forget to drop it.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusRecord, "record", false, "record the current version of each file")
	statusCmd.Flags().BoolVar(&statusForget, "forget", false, "drop the recorded version of each file")
	statusCmd.MarkFlagsMutuallyExclusive("record", "forget")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if cliServices == nil || cliServices.Versions == nil {
		return errNotConfigured
	}
	ctx := cmd.Context()
	versions := cliServices.Versions

	if len(args) == 0 {
		fps, err := versions.List(ctx)
		if err != nil {
			return err
		}
		if len(fps) == 0 {
			cmd.Println("No recorded maps")
			return nil
		}
		for _, fp := range fps {
			cmd.Printf("%s  %s  %s\n", fp.ChecksumString(), formatTime(fp.ModTime), fp.FileName)
		}
		return nil
	}

	for _, arg := range args {
		path, err := filepath.Abs(arg)
		if err != nil {
			return err
		}

		switch {
		case statusRecord:
			fp, err := versions.Record(ctx, path)
			if err != nil {
				return err
			}
			cmd.Printf("recorded   %s  %s\n", fp.ChecksumString(), path)
		case statusForget:
			if err := versions.Forget(ctx, path); err != nil {
				return err
			}
			cmd.Printf("forgotten  %s\n", path)
		default:
			report, err := versions.Status(ctx, path)
			if err != nil {
				return err
			}
			printReport(cmd, path, report)
		}
	}
	return nil
}

func printReport(cmd *cobra.Command, path string, r domain.VersionReport) {
	cmd.Printf("%-10s %s\n", r.Status, path)
	if r.Status == domain.VersionChanged {
		cmd.Printf("  recorded %s  %d bytes  %s\n",
			r.Recorded.ChecksumString(), r.Recorded.Size, formatTime(r.Recorded.ModTime))
		cmd.Printf("  current  %s  %d bytes  %s\n",
			r.Current.ChecksumString(), r.Current.Size, formatTime(r.Current.ModTime))
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
