package tui

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/mapstore/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/mapstore/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/mapstore/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/mapstore/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/mapstore/internal/adapters/driving/tui/views/monitor"
	"github.com/custodia-labs/mapstore/internal/core/domain"
)

// eventBuffer is how many notifications may queue before the UI drains them.
const eventBuffer = 64

// App is the monitor application following the Elm architecture.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	monitorView *monitor.View
	statusBar   *status.Bar

	events     chan domain.MapChangedEvent
	callbackID domain.CallbackID

	currentView messages.ViewType
	err         error
	width       int
	height      int
	ready       bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the monitor and subscribes it to the map's change
// notifications. Call Close to unsubscribe.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	a := &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		help:        help.New(),
		monitorView: monitor.NewView(s, km),
		statusBar:   status.NewBar(s, km),
		events:      make(chan domain.MapChangedEvent, eventBuffer),
		currentView: messages.ViewMonitor,
	}

	a.callbackID = ports.Map.AddChangedCallback(func(event domain.MapChangedEvent) {
		select {
		case a.events <- event:
		default:
		}
	})
	a.refreshSummary()
	return a, nil
}

// WithContext sets the context used for reloads.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Close unsubscribes from change notifications.
func (a *App) Close() {
	a.ports.Map.RemoveChangedCallback(a.callbackID)
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	title := "mapstore"
	if name := a.ports.Map.FileName(); name != "" {
		title += " - " + filepath.Base(name)
	}
	return tea.Batch(tea.SetWindowTitle(title), a.waitForEvent())
}

// waitForEvent delivers the next change notification as a message.
func (a *App) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return messages.MapChanged{Event: <-a.events}
	}
}

func (a *App) reload() tea.Cmd {
	ctx := a.ctx
	m := a.ports.Map
	return func() tea.Msg {
		return messages.ReloadCompleted{Err: m.Reload(ctx)}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.MapChanged:
		a.monitorView.AddEvent(msg.Event)
		a.statusBar.SetEventCount(a.monitorView.Events().Count())
		a.refreshSummary()
		return a, a.waitForEvent()

	case messages.ReloadRequested:
		a.statusBar.SetState(domain.StateLoading)
		a.statusBar.SetMessage("reloading...")
		return a, a.reload()

	case messages.ReloadCompleted:
		a.refreshSummary()
		a.setResult("reloaded", msg.Err)
		return a, nil

	case messages.WatchResult:
		if msg.Reloaded || msg.Err != nil {
			a.refreshSummary()
			a.setResult("file changed, reloaded", msg.Err)
		}
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetError(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	if a.currentView == messages.ViewMonitor {
		a.monitorView, cmd = a.monitorView.Update(msg)
	}
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keymap.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keymap.Help):
		if a.currentView == messages.ViewHelp {
			a.currentView = messages.ViewMonitor
		} else {
			a.currentView = messages.ViewHelp
		}
		return a, nil
	case key.Matches(msg, a.keymap.Back):
		a.currentView = messages.ViewMonitor
		return a, nil
	case key.Matches(msg, a.keymap.Reload):
		return a, func() tea.Msg { return messages.ReloadRequested{} }
	}

	var cmd tea.Cmd
	if a.currentView == messages.ViewMonitor {
		a.monitorView, cmd = a.monitorView.Update(msg)
	}
	return a, cmd
}

func (a *App) setResult(ok string, err error) {
	a.err = err
	a.statusBar.SetState(a.ports.Map.State())
	if err != nil {
		a.statusBar.SetError(err)
		return
	}
	a.statusBar.SetMessage(ok)
}

func (a *App) refreshSummary() {
	a.monitorView.SetSummary(monitor.Capture(a.ports.Map))
	a.statusBar.SetState(a.ports.Map.State())
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.monitorView.View()
	}
	return body + "\n" + a.statusBar.View()
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + "\n\n" +
		a.help.FullHelpView(a.keymap.FullHelp()) + "\n\n" +
		a.styles.Help.Render("[esc] back to monitor")
}

// NewProgram wraps the monitor in a Bubbletea program on the alternate screen.
func (a *App) NewProgram(opts ...tea.ProgramOption) *tea.Program {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(a.ctx)}, opts...)
	return tea.NewProgram(a, opts...)
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Monitor returns the monitor view.
func (a *App) Monitor() *monitor.View {
	return a.monitorView
}

// StatusBar returns the status bar.
func (a *App) StatusBar() *status.Bar {
	return a.statusBar
}

// Err returns the last error.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the terminal size is known.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal size.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width
	a.statusBar.SetWidth(width)
	a.monitorView.SetDimensions(width, height-1)
}
