package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Viewer layout constants
const (
	DefaultViewerWidth  = 80
	DefaultViewerHeight = 20
	viewerChromeHeight  = 3 // header + footer lines
	minViewerHeight     = 5
)

// CopyFunc writes text to the system clipboard.
type CopyFunc func(text string) error

// ViewerModel is a scrollable pager over one rendered plan. `c` copies the
// raw plan text, `q` quits.
type ViewerModel struct {
	Title    string
	Raw      string
	Viewport viewport.Model
	Status   string
	copy     CopyFunc
	render   func(width int) string
	ready    bool
}

// NewViewer creates a viewer. render produces the styled plan for a given
// content width and is called again whenever the window is resized.
func NewViewer(title, raw string, render func(width int) string) ViewerModel {
	vp := viewport.New(DefaultViewerWidth, DefaultViewerHeight)
	vp.SetContent(render(DefaultViewerWidth))
	return ViewerModel{
		Title:    title,
		Raw:      raw,
		Viewport: vp,
		copy:     clipboard.WriteAll,
		render:   render,
	}
}

// WithCopy replaces the clipboard writer.
func (m ViewerModel) WithCopy(fn CopyFunc) ViewerModel {
	m.copy = fn
	return m
}

func (m ViewerModel) Init() tea.Cmd { return nil }

func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Viewport.Width = msg.Width
		m.Viewport.Height = max(msg.Height-viewerChromeHeight, minViewerHeight)
		m.Viewport.SetContent(m.render(msg.Width))
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEscape {
			return m, tea.Quit
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "c":
			if err := m.copy(m.Raw); err != nil {
				m.Status = "copy failed: " + err.Error()
			} else {
				m.Status = "plan copied to clipboard"
			}
			return m, nil
		case "g":
			m.Viewport.GotoTop()
			return m, nil
		case "G":
			m.Viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

func (m ViewerModel) View() string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")

	footer := fmt.Sprintf("%3.f%%  ↑/↓ scroll · c copy · q quit", m.Viewport.ScrollPercent()*100)
	if m.Status != "" {
		footer += "  " + m.Status
	}
	b.WriteString(StyleStatusBar.Render(footer))
	return b.String()
}

// RunViewer opens the viewer in the alternate screen and blocks until the
// user quits.
func RunViewer(m ViewerModel) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// CopyToClipboard writes text to the system clipboard.
func CopyToClipboard(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not supported on this system")
	}
	return clipboard.WriteAll(text)
}
