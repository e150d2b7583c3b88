// Package list provides the scrolling event log of the map monitor.
package list

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/mapstore/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/mapstore/internal/core/domain"
)

// DefaultCapacity is the number of events kept by NewEventList.
const DefaultCapacity = 200

// EventList keeps the most recent change notifications, newest first.
type EventList struct {
	events   []domain.MapChangedEvent
	capacity int
	offset   int
	styles   *styles.Styles
	width    int
	height   int
}

// NewEventList creates an empty event log.
func NewEventList(s *styles.Styles) *EventList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &EventList{
		capacity: DefaultCapacity,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Add records an event. The oldest event is dropped at capacity.
func (l *EventList) Add(event domain.MapChangedEvent) {
	l.events = append([]domain.MapChangedEvent{event}, l.events...)
	if len(l.events) > l.capacity {
		l.events = l.events[:l.capacity]
	}
	if l.offset > 0 {
		l.offset++
		l.clampOffset()
	}
}

// Events returns the recorded events, newest first.
func (l *EventList) Events() []domain.MapChangedEvent {
	return l.events
}

// Count returns the number of recorded events.
func (l *EventList) Count() int {
	return len(l.events)
}

// Clear drops every event.
func (l *EventList) Clear() {
	l.events = nil
	l.offset = 0
}

// ScrollUp moves the view towards newer events.
func (l *EventList) ScrollUp() {
	if l.offset > 0 {
		l.offset--
	}
}

// ScrollDown moves the view towards older events.
func (l *EventList) ScrollDown() {
	l.offset++
	l.clampOffset()
}

// Offset returns the index of the first visible event.
func (l *EventList) Offset() int {
	return l.offset
}

// SetCapacity limits the number of kept events.
func (l *EventList) SetCapacity(n int) {
	if n < 1 {
		n = 1
	}
	l.capacity = n
	if len(l.events) > n {
		l.events = l.events[:n]
	}
	l.clampOffset()
}

// SetDimensions sets the area available to the log.
func (l *EventList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
	l.clampOffset()
}

func (l *EventList) visible() int {
	if l.height < 2 {
		return 1
	}
	return l.height - 1
}

func (l *EventList) clampOffset() {
	maxOffset := len(l.events) - l.visible()
	if maxOffset < 0 {
		maxOffset = 0
	}
	if l.offset > maxOffset {
		l.offset = maxOffset
	}
}

// View renders the log header and the visible events.
func (l *EventList) View() string {
	header := l.styles.Subtitle.Render(fmt.Sprintf("Changes (%d)", len(l.events)))
	if len(l.events) == 0 {
		return header + "\n" + l.styles.Muted.Render("No changes yet")
	}

	end := l.offset + l.visible()
	if end > len(l.events) {
		end = len(l.events)
	}

	lines := make([]string, 0, end-l.offset+1)
	lines = append(lines, header)
	for _, event := range l.events[l.offset:end] {
		lines = append(lines, l.renderEvent(event))
	}
	return strings.Join(lines, "\n")
}

func (l *EventList) renderEvent(event domain.MapChangedEvent) string {
	names := make([]string, 0, len(event.Components))
	for _, c := range event.Components {
		names = append(names, string(c))
	}
	components := strings.Join(names, ", ")

	maxLen := l.width - 30
	if maxLen < 10 {
		maxLen = 10
	}
	if len(components) > maxLen {
		components = components[:maxLen-3] + "..."
	}

	sum := event.Fingerprint.ChecksumString()[:8]
	return l.styles.Muted.Render(event.At.Format("15:04:05")) + " " +
		l.styles.Normal.Render(fmt.Sprintf("%-8s", event.Reason)) + " " +
		l.styles.Changed.Render(components) + " " +
		l.styles.Muted.Render(sum)
}
