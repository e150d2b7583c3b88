// Package monitor provides the main view of the map monitor: the live map's
// identity, its scan layers and a log of change notifications.
package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/mapstore/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/mapstore/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/mapstore/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/mapstore/internal/core/domain"
	"github.com/custodia-labs/mapstore/internal/core/ports/driving"
)

// Summary is what the view shows about the live map.
type Summary struct {
	FileName    string
	State       domain.HandleState
	Fingerprint domain.Fingerprint
	Category    domain.Category
	Scans       []domain.ScanSummary
	Objects     int
	Origin      domain.Origin
}

// Capture reads a consistent summary of the live map.
func Capture(m driving.MapService) Summary {
	s := Summary{
		FileName: m.FileName(),
		State:    m.State(),
	}

	lm := m.Lock()
	defer lm.Unlock()
	s.Fingerprint = lm.Fingerprint()
	s.Category = lm.Category()
	s.Scans = lm.Scans()
	s.Objects = len(lm.Objects())
	s.Origin = lm.Origin()
	return s
}

// View is the monitor view.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	summary Summary
	last    domain.MapChangedEvent
	events  *list.EventList
	width   int
	height  int
}

// NewView creates the monitor view.
func NewView(s *styles.Styles, km *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles: s,
		keymap: km,
		events: list.NewEventList(s),
		width:  80,
		height: 24,
	}
}

// SetSummary replaces the displayed map summary.
func (v *View) SetSummary(s Summary) {
	v.summary = s
}

// Summary returns the displayed map summary.
func (v *View) Summary() Summary {
	return v.summary
}

// AddEvent records a change notification. Components it names are
// highlighted until the next one.
func (v *View) AddEvent(event domain.MapChangedEvent) {
	v.last = event
	v.events.Add(event)
}

// Events returns the event log.
func (v *View) Events() *list.EventList {
	return v.events
}

// SetDimensions sets the terminal size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.events.SetDimensions(width, v.logHeight())
}

// Update handles scrolling and clearing the event log.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch {
	case key.Matches(keyMsg, v.keymap.Up):
		v.events.ScrollUp()
	case key.Matches(keyMsg, v.keymap.Down):
		v.events.ScrollDown()
	case key.Matches(keyMsg, v.keymap.Clear):
		v.events.Clear()
		v.last = domain.MapChangedEvent{}
	}
	return v, nil
}

// View renders the map panel above the event log.
func (v *View) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Panel.Width(v.panelWidth()).Render(v.renderMap()),
		v.events.View(),
	)
}

func (v *View) panelWidth() int {
	w := v.width - v.styles.Panel.GetHorizontalFrameSize()
	if w < 20 {
		w = 20
	}
	return w
}

func (v *View) logHeight() int {
	// Title, fingerprint, category, origin, objects, table header, borders.
	h := v.height - 9 - len(v.summary.Scans) - 1
	if h < 3 {
		h = 3
	}
	return h
}

func (v *View) renderMap() string {
	s := v.summary
	if s.FileName == "" {
		return v.styles.Muted.Render("No map loaded")
	}

	lines := []string{
		v.styles.Title.Render(s.FileName) + "  " + v.styles.State(s.State).Render(s.State.String()),
		v.field("Checksum", s.Fingerprint.ChecksumString()),
		v.field("Size", fmt.Sprintf("%d bytes", s.Fingerprint.Size)),
		v.field("Category", s.Category.String()),
		v.highlight(domain.ComponentObjects, v.field("Objects", fmt.Sprintf("%d", s.Objects))),
		v.highlight(domain.ComponentSupplement, v.field("Origin", origin(s.Origin))),
	}
	if !s.Fingerprint.ModTime.IsZero() {
		lines = append(lines, v.field("Modified", s.Fingerprint.ModTime.Format("2006-01-02 15:04:05")))
	}

	lines = append(lines, "", v.styles.Subtitle.Render(
		fmt.Sprintf("%-14s %8s %8s  %s", "Scan", "Points", "Lines", "Bounds")))
	for _, scan := range s.Scans {
		row := fmt.Sprintf("%-14s %8d %8d  %s",
			scanName(scan.ScanType), scan.NumPoints, scan.NumLines, bounds(scan))
		lines = append(lines, v.highlight(domain.ComponentScan, v.styles.Normal.Render(row)))
	}
	return strings.Join(lines, "\n")
}

func (v *View) field(label, value string) string {
	return v.styles.Label.Render(label) + v.styles.Normal.Render(value)
}

func (v *View) highlight(c domain.Component, text string) string {
	if !v.last.Has(c) {
		return text
	}
	return text + " " + v.styles.Changed.Render("*")
}

func origin(o domain.Origin) string {
	if !o.Has {
		return "none"
	}
	return fmt.Sprintf("%.6f, %.6f @ %.1fm", o.LatLong.X(), o.LatLong.Y(), o.Altitude)
}

func scanName(scanType string) string {
	switch scanType {
	case domain.DefaultScanType:
		return "default"
	case domain.SummaryScanType:
		return "summary"
	}
	return scanType
}

func bounds(scan domain.ScanSummary) string {
	if scan.NumPoints == 0 {
		return "-"
	}
	b := scan.PointBounds
	return fmt.Sprintf("(%.0f,%.0f)-(%.0f,%.0f)", b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y())
}
