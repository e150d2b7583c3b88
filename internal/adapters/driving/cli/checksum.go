package cli

import (
	"encoding/hex"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/mapstore/internal/mapdoc"
)

var checksumCanonical bool

var checksumCmd = &cobra.Command{
	Use:   "checksum <map-file>...",
	Short: "Print the MD5 checksum of map files",
	Long: `Print the MD5 checksum of each map file in md5sum format.

With --canonical the map is parsed and the checksum of its canonical
encoding is printed instead, which ignores formatting differences.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChecksum,
}

func init() {
	checksumCmd.Flags().BoolVar(&checksumCanonical, "canonical", false, "checksum the canonical encoding")
	rootCmd.AddCommand(checksumCmd)
}

func runChecksum(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		sum, err := checksumOf(cmd, path)
		if err != nil {
			return err
		}
		cmd.Printf("%s  %s\n", sum, path)
	}
	return nil
}

func checksumOf(cmd *cobra.Command, path string) (string, error) {
	if !checksumCanonical {
		fp, err := mapdoc.FileFingerprint(path, "")
		if err != nil {
			return "", err
		}
		return fp.ChecksumString(), nil
	}

	m, err := openMap(cmd.Context(), path)
	if err != nil {
		return "", err
	}
	defer m.Close()
	sum := m.Snapshot().CalculateChecksum()
	return hex.EncodeToString(sum[:]), nil
}
