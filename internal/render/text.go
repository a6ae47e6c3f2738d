package render

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/josephgoksu/PlanWise/internal/plantext"
)

// Plain renders blocks as unstyled text with emphasis removed.
type Plain struct {
	opts Options
}

func (p *Plain) Render(w io.Writer, blocks []plantext.Block) error {
	v := p.opts.vocab()
	var out strings.Builder
	for _, b := range blocks {
		switch blk := b.(type) {
		case plantext.Heading:
			text := plantext.Plain(v.Spans(blk.Text))
			out.WriteString(text)
			out.WriteString("\n")
			if blk.Level == 1 {
				out.WriteString(strings.Repeat("=", lipgloss.Width(text)))
				out.WriteString("\n")
			}
		case plantext.List:
			for _, item := range blk.Items {
				out.WriteString("  • ")
				out.WriteString(plantext.Plain(v.Spans(item)))
				out.WriteString("\n")
			}
		case plantext.Paragraph:
			out.WriteString(plantext.Plain(v.Spans(blk.Text)))
			out.WriteString("\n")
		case plantext.Spacer:
			out.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, out.String())
	return err
}

// Markdown re-emits blocks in the Markdown vocabulary with ** emphasis,
// regardless of the vocabulary the plan was parsed with.
type Markdown struct {
	opts Options
}

func (m *Markdown) Render(w io.Writer, blocks []plantext.Block) error {
	v := m.opts.vocab()
	md := plantext.MarkdownVocabulary
	var out strings.Builder
	for _, b := range blocks {
		switch blk := b.(type) {
		case plantext.Heading:
			out.WriteString(strings.Repeat("#", blk.Level))
			out.WriteString(" ")
			out.WriteString(markdownSpans(v.Spans(blk.Text)))
			out.WriteString("\n")
		case plantext.List:
			for _, item := range blk.Items {
				out.WriteString(md.PrefixFor(plantext.KindListItem))
				out.WriteString(markdownSpans(v.Spans(item)))
				out.WriteString("\n")
			}
		case plantext.Paragraph:
			out.WriteString(escapeParagraph(md, markdownSpans(v.Spans(blk.Text))))
			out.WriteString("\n")
		case plantext.Spacer:
			out.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, out.String())
	return err
}

// escapeParagraph backslash-escapes a paragraph that md would otherwise
// read as a heading or list item.
func escapeParagraph(md *plantext.Vocabulary, text string) string {
	if kind, _ := md.Classify(text); kind != plantext.KindParagraph {
		return `\` + text
	}
	return text
}

func markdownSpans(spans []plantext.Span) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Kind == plantext.SpanEmphasis {
			b.WriteString("**")
			b.WriteString(s.Text)
			b.WriteString("**")
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}
