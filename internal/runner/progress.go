package runner

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/leapstack-labs/fortlint/pkg/lint"
)

// Progress is told about each finished file. Implementations are safe for
// concurrent use.
type Progress interface {
	Start(total int)
	Advance(path string)
	Finish()
}

// NewProgress returns the progress display for style, drawing on w.
func NewProgress(style lint.ProgressBar, w io.Writer) Progress {
	switch style {
	case lint.ProgressASCII:
		return &asciiProgress{w: w, width: asciiWidth}
	case lint.ProgressFancy:
		return &fancyProgress{w: w}
	default:
		return nopProgress{}
	}
}

type nopProgress struct{}

func (nopProgress) Start(int)      {}
func (nopProgress) Advance(string) {}
func (nopProgress) Finish()        {}

const asciiWidth = 30

// asciiProgress redraws one line: [#######-------]  7/15
type asciiProgress struct {
	mu    sync.Mutex
	w     io.Writer
	width int
	total int
	done  int
}

func (p *asciiProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total, p.done = total, 0
	p.draw()
}

func (p *asciiProgress) Advance(string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	p.draw()
}

func (p *asciiProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.w)
}

func (p *asciiProgress) draw() {
	filled := p.width
	if p.total > 0 {
		filled = p.width * p.done / p.total
	}
	_, _ = fmt.Fprintf(p.w, "\r[%s%s] %*d/%d",
		strings.Repeat("#", filled), strings.Repeat("-", p.width-filled),
		len(fmt.Sprint(p.total)), p.done, p.total)
}

// fancyProgress runs a Bubble Tea program that renders a gradient bar.
type fancyProgress struct {
	w       io.Writer
	program *tea.Program
	done    chan struct{}
}

type advanceMsg string

type finishMsg struct{}

func (p *fancyProgress) Start(total int) {
	m := progressModel{
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		total: total,
	}
	p.program = tea.NewProgram(m,
		tea.WithOutput(p.w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	p.done = make(chan struct{})
	go func() {
		defer close(p.done)
		_, _ = p.program.Run()
	}()
}

func (p *fancyProgress) Advance(path string) {
	if p.program != nil {
		p.program.Send(advanceMsg(path))
	}
}

func (p *fancyProgress) Finish() {
	if p.program == nil {
		return
	}
	p.program.Send(finishMsg{})
	<-p.done
}

type progressModel struct {
	bar     progress.Model
	total   int
	done    int
	current string
}

func (m progressModel) Init() tea.Cmd { return nil }

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case advanceMsg:
		m.done++
		m.current = string(msg)
	case finishMsg:
		m.current = ""
		return m, tea.Quit
	}
	return m, nil
}

var currentStyle = lipgloss.NewStyle().Faint(true)

func (m progressModel) View() string {
	percent := 1.0
	if m.total > 0 {
		percent = float64(m.done) / float64(m.total)
	}
	line := fmt.Sprintf("%s %d/%d", m.bar.ViewAs(percent), m.done, m.total)
	if m.current != "" {
		line += " " + currentStyle.Render(runewidth.Truncate(m.current, 40, "…"))
	}
	return line + "\n"
}
