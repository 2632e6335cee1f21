// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/brainfile-go/internal/board"
	"github.com/nibzard/brainfile-go/internal/codec"
)

// ReloadFunc returns a fresh board snapshot.
type ReloadFunc func() (*board.Board, error)

// Option configures the TUI behavior.
type Option func(*uiConfig)

// uiConfig holds TUI configuration.
type uiConfig struct {
	boardPath string
	reload    ReloadFunc
}

// WithBoardPath sets the board file the TUI shows and reloads.
func WithBoardPath(path string) Option {
	return func(c *uiConfig) {
		c.boardPath = path
	}
}

// WithReloader overrides how the TUI fetches board snapshots.
func WithReloader(fn ReloadFunc) Option {
	return func(c *uiConfig) {
		c.reload = fn
	}
}

// RunTUI starts the board viewer.
func RunTUI(ctx context.Context, opts ...Option) error {
	c := &uiConfig{}
	for _, opt := range opts {
		opt(c)
	}

	if c.reload == nil {
		if c.boardPath == "" {
			return fmt.Errorf("tui requires a board path or a reloader")
		}
		path := c.boardPath
		c.reload = func() (*board.Board, error) {
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			return codec.Parse(string(content))
		}
	}

	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newBoardModel(c.boardPath, c.reload)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type boardModel struct {
	boardPath    string
	reload       ReloadFunc
	board        *board.Board
	loadErr      error
	focus        int
	filter       board.Priority // empty shows every task
	showHelp     bool
	tickInterval time.Duration
}

type tickMsg time.Time

func newBoardModel(path string, reload ReloadFunc) *boardModel {
	return &boardModel{
		boardPath:    path,
		reload:       reload,
		tickInterval: time.Second,
	}
}

func (m *boardModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
			return m, nil
		case "tab":
			if m.board != nil && len(m.board.Columns) > 0 {
				m.focus = (m.focus + 1) % len(m.board.Columns)
			}
			return m, nil
		case "f":
			m.filter = nextPriorityFilter(m.filter)
			return m, nil
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			idx := int(msg.String()[0] - '1')
			if m.board != nil && idx < len(m.board.Columns) {
				m.focus = idx
			}
			return m, nil
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}

	return m, nil
}

func (m *boardModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.board)

	// Show help screen if enabled
	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	// Show filter indicator
	if m.filter != "" {
		b.WriteString(fmt.Sprintf("Filter: %s priority (f to cycle)\n\n", m.filter))
	}

	if m.loadErr != nil {
		b.WriteString("Error loading board:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}
	if m.board == nil {
		b.WriteString("Loading...\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	writeColumns(&b, m.board, m.focus, m.filter)
	writeArchive(&b, m.board)
	if m.boardPath != "" {
		b.WriteString(fmt.Sprintf("Board: %s\n\n", m.boardPath))
	}
	writeFooter(&b, m.tickInterval)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *boardModel) refresh() {
	brd, err := m.reload()
	if err != nil {
		m.loadErr = err
		m.board = nil
		return
	}
	m.loadErr = nil
	m.board = brd
	if m.focus >= len(brd.Columns) {
		m.focus = 0
	}
}

// nextPriorityFilter cycles all -> critical -> high -> medium -> low -> all.
func nextPriorityFilter(p board.Priority) board.Priority {
	switch p {
	case "":
		return board.PriorityCritical
	case board.PriorityCritical:
		return board.PriorityHigh
	case board.PriorityHigh:
		return board.PriorityMedium
	case board.PriorityMedium:
		return board.PriorityLow
	default:
		return ""
	}
}

func filterTasks(tasks []board.Task, filter board.Priority) []board.Task {
	if filter == "" {
		return tasks
	}
	var out []board.Task
	for _, t := range tasks {
		if t.Priority == filter {
			out = append(out, t)
		}
	}
	return out
}

func writeTitle(b *strings.Builder, brd *board.Board) {
	title := "Brainfile"
	if brd != nil && brd.Title != "" {
		title = brd.Title
	}
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeColumns(b *strings.Builder, brd *board.Board, focus int, filter board.Priority) {
	for i, col := range brd.Columns {
		marker := "  "
		if i == focus {
			marker = "> "
		}
		b.WriteString(fmt.Sprintf("%s%d. %s (%d)\n", marker, i+1, col.Title, len(col.Tasks)))
		if i != focus {
			continue
		}
		tasks := filterTasks(col.Tasks, filter)
		if len(tasks) == 0 {
			b.WriteString("     (no tasks)\n")
			continue
		}
		for _, task := range tasks {
			b.WriteString("   " + formatTask(task) + "\n")
		}
	}
	b.WriteString("\n")
}

func writeArchive(b *strings.Builder, brd *board.Board) {
	if len(brd.Archive) == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("Archive: %d task(s)\n\n", len(brd.Archive)))
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Reload the board\n")
	b.WriteString("  tab          Focus next column\n")
	b.WriteString("  1-9          Focus column by number\n")
	b.WriteString("  f            Cycle priority filter\n")
	b.WriteString("  h, ?         Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	b.WriteString(fmt.Sprintf("Press h for help | q to quit | Refreshing every %s\n", interval))
}

func formatTask(t board.Task) string {
	icon := " "
	switch t.Priority {
	case board.PriorityCritical:
		icon = "!"
	case board.PriorityHigh:
		icon = ">"
	case board.PriorityLow:
		icon = "."
	}

	line := fmt.Sprintf("%s [%s] %s", icon, t.ID, t.Title)
	if total := len(t.Subtasks); total > 0 {
		done := 0
		for _, st := range t.Subtasks {
			if st.Completed {
				done++
			}
		}
		line += fmt.Sprintf(" (%d/%d)", done, total)
	}
	return line
}

// IsTTY returns true if stdout is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}
