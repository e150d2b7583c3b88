package domain

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/paulmach/orb"
)

// Scan type names.
const (
	// DefaultScanType is the single unnamed source of a map without a Sources line.
	DefaultScanType = ""

	// SummaryScanType requests the union of all scan layers.
	SummaryScanType = "_summary"
)

// Scan file keywords. Named sources prefix them with "<Type>_".
const (
	KeywordSources         = "Sources:"
	KeywordDisplay         = "Display:"
	KeywordMinPos          = "MinPos:"
	KeywordMaxPos          = "MaxPos:"
	KeywordNumPoints       = "NumPoints:"
	KeywordPointsAreSorted = "PointsAreSorted:"
	KeywordResolution      = "Resolution:"
	KeywordLineMinPos      = "LineMinPos:"
	KeywordLineMaxPos      = "LineMaxPos:"
	KeywordNumLines        = "NumLines:"
	KeywordLinesAreSorted  = "LinesAreSorted:"
	KeywordPointData       = "DATA"
	KeywordLineData        = "LINES"
)

// ValidateScanType checks that a source name can prefix scan keywords.
// Keywords are written unquoted, so names may not hold whitespace, quotes,
// backslashes or control characters.
func ValidateScanType(scanType string) error {
	bad := strings.IndexFunc(scanType, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r) || r == '"' || r == '\\'
	})
	if bad >= 0 {
		return fmt.Errorf("scan type %q: %w", scanType, ErrInvalidInput)
	}
	return nil
}

// ScanKeyword returns a scan keyword as written for scanType.
func ScanKeyword(scanType, keyword string) string {
	if scanType == DefaultScanType {
		return keyword
	}
	return scanType + "_" + keyword
}

// ScanSummary describes one scan layer without its data.
type ScanSummary struct {
	ScanType    string
	Display     string
	Resolution  int
	NumPoints   int
	NumLines    int
	PointBounds orb.Bound
	LineBounds  orb.Bound
}
