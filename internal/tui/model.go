package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/vito/progrock"
	"go.trai.ch/marshal/internal/ui/style"
)

type status int

const (
	statusPending status = iota
	statusRunning
	statusCompleted
	statusCached
	statusFailed
)

// listWidth is the width of the task pane, border included.
const listWidth = 40

type taskState struct {
	id     string
	name   string
	status status
	logs   bytes.Buffer
}

var (
	listStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(style.Slate).
			Width(listWidth - 1)

	titleStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

	runningStyle   = lipgloss.NewStyle().Foreground(style.Yellow)
	completedStyle = lipgloss.NewStyle().Foreground(style.Green)
	failedStyle    = lipgloss.NewStyle().Foreground(style.Red)
	pendingStyle   = lipgloss.NewStyle().Foreground(style.Slate)
	cachedStyle    = lipgloss.NewStyle().Foreground(style.Slate).Faint(true)
)

// Model is the Bubble Tea model listing build tasks next to the output of the
// most recently started one.
type Model struct {
	tape     TapeSource
	tasks    []*taskState
	byID     map[string]*taskState
	active   *taskState
	width    int
	height   int
	spinner  spinner.Model
	viewport viewport.Model
}

// NewModel creates a model reading updates from tape.
func NewModel(tape TapeSource) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = runningStyle

	return &Model{
		tape:    tape,
		byID:    make(map[string]*taskState),
		spinner: s,
	}
}

// Init starts reading from the tape.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		WaitForTape(m.tape),
		m.spinner.Tick,
	)
}

// Update handles incoming messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport = viewport.New(max(msg.Width-listWidth-1, 0), max(msg.Height-1, 0))
		m.refreshLogs()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case MsgTapeUpdate:
		m.apply(msg.Update)
		return m, WaitForTape(m.tape)
	case MsgTapeEnded:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) apply(update *progrock.StatusUpdate) {
	for _, v := range update.Vertexes {
		t, ok := m.byID[v.Id]
		if !ok {
			t = &taskState{id: v.Id}
			m.byID[v.Id] = t
			m.tasks = append(m.tasks, t)
		}
		t.name = v.Name
		t.status = statusOf(v)
		if t.status == statusRunning {
			m.active = t
		}
	}
	for _, l := range update.Logs {
		if t, ok := m.byID[l.Vertex]; ok {
			t.logs.Write(l.Data)
		}
	}
	m.refreshLogs()
}

func (m *Model) refreshLogs() {
	if m.active == nil {
		return
	}
	m.viewport.SetContent(m.active.logs.String())
	m.viewport.GotoBottom()
}

func statusOf(v *progrock.Vertex) status {
	switch {
	case v.Completed != nil && v.Error != nil:
		return statusFailed
	case v.Cached:
		return statusCached
	case v.Completed != nil:
		return statusCompleted
	case v.Started != nil:
		return statusRunning
	default:
		return statusPending
	}
}

// View renders the task list and, once the window size is known, the log
// pane of the active task.
func (m *Model) View() string {
	list := m.taskList()
	if m.height == 0 {
		return list
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, listStyle.Render(list), m.logPane())
}

func (m *Model) taskList() string {
	var s strings.Builder

	start := 0
	if m.height > 0 && len(m.tasks) > m.height {
		start = len(m.tasks) - m.height
	}

	for _, t := range m.tasks[start:] {
		var icon string
		var st lipgloss.Style
		switch t.status {
		case statusRunning:
			icon, st = m.spinner.View(), runningStyle
		case statusCompleted:
			icon, st = style.Check, completedStyle
		case statusCached:
			icon, st = style.Tilde, cachedStyle
		case statusFailed:
			icon, st = style.Cross, failedStyle
		default:
			icon, st = "•", pendingStyle
		}
		fmt.Fprintf(&s, "%s %s\n", st.Render(icon), t.name)
	}
	return s.String()
}

func (m *Model) logPane() string {
	header := "waiting"
	if m.active != nil {
		header = m.active.name
	}
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(header), m.viewport.View())
}
