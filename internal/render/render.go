// Package render turns parsed plan blocks into output formats: styled
// terminal text, plain text, Markdown, HTML, JSON, YAML and PDF.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/josephgoksu/PlanWise/internal/plantext"
)

// Renderer writes a block sequence in one output format.
type Renderer interface {
	Render(w io.Writer, blocks []plantext.Block) error
}

// Format names accepted by ForFormat.
const (
	FormatTerminal = "terminal"
	FormatPlain    = "plain"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatPDF      = "pdf"
)

// Formats lists every supported format name.
var Formats = []string{FormatTerminal, FormatPlain, FormatMarkdown, FormatHTML, FormatJSON, FormatYAML, FormatPDF}

// DefaultWidth is used when Options.Width is not set.
const DefaultWidth = 80

// Options configures renderers. Vocabulary decides how inline emphasis is
// resolved and defaults to the emoji vocabulary.
type Options struct {
	Vocabulary *plantext.Vocabulary
	Width      int
	Title      string
	// Standalone wraps HTML output in a full document.
	Standalone bool
}

func (o Options) vocab() *plantext.Vocabulary {
	if o.Vocabulary == nil {
		return plantext.EmojiVocabulary
	}
	return o.Vocabulary
}

func (o Options) width() int {
	if o.Width <= 0 {
		return DefaultWidth
	}
	return o.Width
}

// ForFormat returns the renderer for a format name.
func ForFormat(name string, opts Options) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FormatTerminal:
		return NewTerminal(opts), nil
	case FormatPlain, "text", "txt":
		return &Plain{opts: opts}, nil
	case FormatMarkdown, "md":
		return &Markdown{opts: opts}, nil
	case FormatHTML:
		return &HTML{opts: opts}, nil
	case FormatJSON:
		return &JSON{opts: opts}, nil
	case FormatYAML, "yml":
		return &YAML{opts: opts}, nil
	case FormatPDF:
		return &PDF{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q (supported: %s)", name, strings.Join(Formats, ", "))
	}
}

// String renders blocks into a string.
func String(r Renderer, blocks []plantext.Block) (string, error) {
	var b strings.Builder
	if err := r.Render(&b, blocks); err != nil {
		return "", err
	}
	return b.String(), nil
}
