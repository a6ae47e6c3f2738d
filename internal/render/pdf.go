package render

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/josephgoksu/PlanWise/internal/plantext"
	"github.com/jung-kurt/gofpdf"
)

// PDF page geometry in millimetres.
const (
	pdfMargin     = 20.0
	pdfListIndent = 6.0
	pdfLineHeight = 6.0
	pdfFont       = "Helvetica"
)

// pdfExtraRunes are the non-Latin-1 runes the cp1252 core fonts can show.
var pdfExtraRunes = map[rune]bool{
	'•': true, '–': true, '—': true, '‘': true, '’': true,
	'“': true, '”': true, '…': true, '€': true,
}

// PDF renders blocks into a single A4 document using the built-in Helvetica
// font. Glyphs outside cp1252 (the emoji markers) are dropped.
type PDF struct {
	opts Options
}

func (p *PDF) Render(w io.Writer, blocks []plantext.Block) error {
	v := p.opts.vocab()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	if p.opts.Title != "" {
		pdf.SetTitle(p.opts.Title, true)
	}
	pdf.SetCreator("PlanWise", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	write := func(spans []plantext.Span, size float64, boldAll bool) {
		for _, s := range spans {
			style := ""
			if boldAll || s.Kind == plantext.SpanEmphasis {
				style = "B"
			}
			pdf.SetFont(pdfFont, style, size)
			pdf.Write(size*0.45, tr(pdfSafe(s.Text)))
		}
	}

	for _, b := range blocks {
		switch blk := b.(type) {
		case plantext.Heading:
			size := map[int]float64{1: 18, 2: 15, 3: 13}[blk.Level]
			pdf.Ln(2)
			pdf.SetTextColor(40, 40, 40)
			write(v.Spans(blk.Text), size, true)
			pdf.Ln(size * 0.55)
		case plantext.List:
			pdf.SetTextColor(20, 20, 20)
			for _, item := range blk.Items {
				pdf.SetFont(pdfFont, "", 11)
				pdf.SetX(pdfMargin)
				pdf.Write(pdfLineHeight, tr("•"))
				pdf.SetLeftMargin(pdfMargin + pdfListIndent)
				pdf.SetX(pdfMargin + pdfListIndent)
				write(v.Spans(item), 11, false)
				pdf.SetLeftMargin(pdfMargin)
				pdf.Ln(pdfLineHeight)
			}
		case plantext.Paragraph:
			pdf.SetTextColor(20, 20, 20)
			write(v.Spans(blk.Text), 11, false)
			pdf.Ln(pdfLineHeight)
		case plantext.Spacer:
			pdf.Ln(pdfLineHeight / 2)
		}
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

// pdfSafe removes runes the core fonts cannot encode and tidies the spaces
// left behind.
func pdfSafe(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r < 0x100 || pdfExtraRunes[r] {
			return r
		}
		return -1
	}, s)
	if cleaned == s {
		return s
	}
	for strings.Contains(cleaned, "  ") {
		cleaned = strings.ReplaceAll(cleaned, "  ", " ")
	}
	if first, _ := utf8.DecodeRuneInString(s); first >= 0x100 && !pdfExtraRunes[first] {
		cleaned = strings.TrimLeft(cleaned, " ")
	}
	return cleaned
}
