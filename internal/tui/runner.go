package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vvka-141/rawload/pkg/rawload"
)

// Progress runs the progress view on stderr while a run reports into it.
type Progress struct {
	program *tea.Program
	out     io.Writer
	done    chan struct{}
}

// NewProgress creates the view. Extra options are appended to the defaults;
// signals are left to the caller.
func NewProgress(cancel context.CancelFunc, opts ...tea.ProgramOption) *Progress {
	opts = append([]tea.ProgramOption{tea.WithOutput(os.Stderr), tea.WithoutSignalHandler()}, opts...)
	return &Progress{
		program: tea.NewProgram(NewModel(cancel), opts...),
		out:     os.Stderr,
		done:    make(chan struct{}),
	}
}

// Run blocks until Finish is called or the user quits.
func (p *Progress) Run() error {
	defer close(p.done)
	_, err := p.program.Run()
	return err
}

// Observer returns an observer feeding the view.
func (p *Progress) Observer() rawload.Observer {
	return observer{s: p.program}
}

// Println prints line above the view, or straight to stderr once the view
// has stopped. It is the sink of the run's logger.
func (p *Progress) Println(line string) {
	select {
	case <-p.done:
		fmt.Fprintln(p.out, line)
	default:
		p.program.Send(printMsg(line))
	}
}

// Finish stops the view.
func (p *Progress) Finish() {
	p.program.Send(runDoneMsg{})
}
