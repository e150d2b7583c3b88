package changes

import (
	"bytes"
	"fmt"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/custodia-labs/mapstore/internal/core/domain"
)

// scanPatchName is the patch file name of a scan layer.
func scanPatchName(scanType string) string {
	if scanType == domain.DefaultScanType {
		return "scan"
	}
	return "scan/" + scanType
}

// Patch renders the ledger as a unified diff with one file per scan layer
// and one per text section. Each file holds a single hunk listing the
// deletions then the additions.
func (l *Ledger) Patch() ([]byte, error) {
	var files []*diff.FileDiff

	for _, scanType := range l.ScanTypes() {
		d := l.scans[scanType]
		var lines [2][]string
		for _, ct := range []ChangeType{Deletions, Additions} {
			lines[ct] = append(lines[ct], d.summary[ct].Texts()...)
			for _, s := range d.segments[ct] {
				lines[ct] = append(lines[ct], domain.FormatSegment(s))
			}
			for _, p := range d.points[ct] {
				lines[ct] = append(lines[ct], domain.FormatPoint(p))
			}
		}
		files = append(files, fileDiff(scanPatchName(scanType), lines))
	}

	for _, name := range l.Sections() {
		var lines [2][]string
		for _, ct := range []ChangeType{Deletions, Additions} {
			lines[ct] = l.Lines(name, ct).Texts()
		}
		files = append(files, fileDiff(name, lines))
	}

	out, err := diff.PrintMultiFileDiff(files)
	if err != nil {
		return nil, fmt.Errorf("failed to print ledger patch: %w", err)
	}
	return out, nil
}

func fileDiff(name string, lines [2][]string) *diff.FileDiff {
	var body bytes.Buffer
	for _, l := range lines[Deletions] {
		body.WriteString("-" + l + "\n")
	}
	for _, l := range lines[Additions] {
		body.WriteString("+" + l + "\n")
	}

	hunk := &diff.Hunk{
		OrigLines: int32(len(lines[Deletions])),
		NewLines:  int32(len(lines[Additions])),
		Body:      body.Bytes(),
	}
	if hunk.OrigLines > 0 {
		hunk.OrigStartLine = 1
	}
	if hunk.NewLines > 0 {
		hunk.NewStartLine = 1
	}
	return &diff.FileDiff{
		OrigName: "a/" + name,
		NewName:  "b/" + name,
		Hunks:    []*diff.Hunk{hunk},
	}
}

// PatchStats is the line count summary of a rendered patch.
type PatchStats struct {
	Files   int
	Added   int
	Deleted int
}

// ParsePatchStats parses a patch produced by Patch and counts its lines.
func ParsePatchStats(patch []byte) (PatchStats, error) {
	files, err := diff.ParseMultiFileDiff(patch)
	if err != nil {
		return PatchStats{}, fmt.Errorf("failed to parse ledger patch: %w", err)
	}
	stats := PatchStats{Files: len(files)}
	for _, f := range files {
		st := f.Stat()
		stats.Added += int(st.Added + st.Changed)
		stats.Deleted += int(st.Deleted + st.Changed)
	}
	return stats, nil
}
