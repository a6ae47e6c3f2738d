package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/josephgoksu/PlanWise/internal/plantext"
)

// Palette for terminal output. Matches the CLI styles in internal/ui.
var (
	colorTitle   = lipgloss.Color("205") // Pink
	colorSection = lipgloss.Color("87")  // Cyan
	colorSub     = lipgloss.Color("214") // Orange
	colorText    = lipgloss.Color("252")
	colorBullet  = lipgloss.Color("241")
)

// Terminal renders blocks as styled, word-wrapped terminal text.
type Terminal struct {
	opts Options

	h1       lipgloss.Style
	h2       lipgloss.Style
	h3       lipgloss.Style
	text     lipgloss.Style
	emphasis lipgloss.Style
	bullet   lipgloss.Style
}

// NewTerminal builds a terminal renderer with the default styles.
func NewTerminal(opts Options) *Terminal {
	return &Terminal{
		opts:     opts,
		h1:       lipgloss.NewStyle().Foreground(colorTitle).Bold(true).Underline(true),
		h2:       lipgloss.NewStyle().Foreground(colorSection).Bold(true),
		h3:       lipgloss.NewStyle().Foreground(colorSub).Bold(true),
		text:     lipgloss.NewStyle().Foreground(colorText),
		emphasis: lipgloss.NewStyle().Foreground(colorText).Bold(true),
		bullet:   lipgloss.NewStyle().Foreground(colorBullet),
	}
}

func (t *Terminal) Render(w io.Writer, blocks []plantext.Block) error {
	v := t.opts.vocab()
	width := t.opts.width()
	wrap := lipgloss.NewStyle().Width(width)

	var out strings.Builder
	for _, b := range blocks {
		switch blk := b.(type) {
		case plantext.Heading:
			style := t.headingStyle(blk.Level)
			if blk.Level == 1 && out.Len() > 0 {
				out.WriteString("\n")
			}
			out.WriteString(wrap.Render(t.spans(v.Spans(blk.Text), style, style)))
			out.WriteString("\n")
		case plantext.List:
			bullet := t.bullet.Render("•") + " "
			item := lipgloss.NewStyle().Width(width - 4)
			for _, it := range blk.Items {
				body := item.Render(t.spans(v.Spans(it), t.text, t.emphasis))
				out.WriteString(indent(body, "  "+bullet, "    "))
				out.WriteString("\n")
			}
		case plantext.Paragraph:
			out.WriteString(wrap.Render(t.spans(v.Spans(blk.Text), t.text, t.emphasis)))
			out.WriteString("\n")
		case plantext.Spacer:
			out.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, out.String())
	return err
}

func (t *Terminal) headingStyle(level int) lipgloss.Style {
	switch level {
	case 1:
		return t.h1
	case 2:
		return t.h2
	default:
		return t.h3
	}
}

func (t *Terminal) spans(spans []plantext.Span, plain, emph lipgloss.Style) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Kind == plantext.SpanEmphasis {
			b.WriteString(emph.Render(s.Text))
			continue
		}
		b.WriteString(plain.Render(s.Text))
	}
	return b.String()
}

// indent prefixes the first line of s with first and the rest with rest.
func indent(s, first, rest string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if i == 0 {
			lines[i] = first + l
		} else {
			lines[i] = fmt.Sprintf("%s%s", rest, l)
		}
	}
	return strings.Join(lines, "\n")
}
