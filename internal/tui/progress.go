package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type fileStartedMsg struct {
	table string
	rows  int
}

type chunkDoneMsg struct {
	rows int
	ok   bool
}

type fileDoneMsg struct {
	table    string
	rows     int64
	duration time.Duration
	err      error
}

type runDoneMsg struct{}

type printMsg string

// Model is the live progress view of an extraction run.
type Model struct {
	spinner spinner.Model
	bar     progress.Model
	quit    key.Binding
	cancel  context.CancelFunc

	table        string
	total        int
	done         int
	failedChunks int
	files        int
	cancelling   bool
	finished     bool
}

// NewModel creates the view. cancel is called on the first ctrl+c; the
// second one quits without waiting for the run.
func NewModel(cancel context.CancelFunc) Model {
	return Model{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(SpinnerStyle)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "cancel")),
		cancel:  cancel,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.quit) {
			if m.cancelling {
				return m, tea.Quit
			}
			m.cancelling = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.bar.Width = max(10, min(msg.Width-30, 60))
		return m, nil

	case fileStartedMsg:
		m.table = msg.table
		m.total = msg.rows
		m.done = 0
		m.failedChunks = 0
		return m, nil

	case chunkDoneMsg:
		m.done += msg.rows
		if !msg.ok {
			m.failedChunks++
		}
		return m, nil

	case fileDoneMsg:
		m.files++
		return m, tea.Println(fileLine(msg))

	case printMsg:
		return m, tea.Println(string(msg))

	case runDoneMsg:
		m.finished = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.finished {
		return ""
	}

	var view string
	if m.table == "" {
		view = m.spinner.View() + " Discovering source files"
	} else {
		view = fmt.Sprintf("%s Loading %s\n%s %s",
			m.spinner.View(), TitleStyle.Render(m.table), m.bar.ViewAs(m.fraction()),
			MutedStyle.Render(fmt.Sprintf("%d/%d rows", m.done, m.total)))
		if m.failedChunks > 0 {
			view += " " + ErrorStyle.Render(fmt.Sprintf("%d chunks failed", m.failedChunks))
		}
	}

	if m.cancelling {
		view += "\n" + WarningStyle.Render("Cancelling, press ctrl+c again to quit")
	}
	return view + "\n"
}

func (m Model) fraction() float64 {
	if m.total == 0 {
		return 1
	}
	return float64(m.done) / float64(m.total)
}

func fileLine(msg fileDoneMsg) string {
	if msg.err != nil {
		return ErrorStyle.Render(SymbolCross) + " " + msg.table + ": " + msg.err.Error()
	}
	return fmt.Sprintf("%s %s %s",
		SuccessStyle.Render(SymbolCheck), msg.table,
		MutedStyle.Render(fmt.Sprintf("%d rows in %s", msg.rows, msg.duration.Round(time.Millisecond))))
}
