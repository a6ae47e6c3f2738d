package plantext

import "strings"

// SpanKind tags a run of inline text.
type SpanKind string

const (
	SpanPlain    SpanKind = "plain"
	SpanEmphasis SpanKind = "emphasis"
)

// Span is a contiguous run of text within a block, without delimiters.
type Span struct {
	Kind SpanKind `json:"kind" yaml:"kind"`
	Text string   `json:"text" yaml:"text"`
}

// Spans splits text into plain and emphasized runs. Delimiter pairs are
// matched left to right, shortest match first; an unterminated delimiter stays
// in the plain text. An empty pair yields an emphasized span with empty text.
func (v *Vocabulary) Spans(text string) []Span {
	if v.emphasis == nil {
		if text == "" {
			return nil
		}
		return []Span{{Kind: SpanPlain, Text: text}}
	}

	var spans []Span
	last := 0
	for _, m := range v.emphasis.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			spans = append(spans, Span{Kind: SpanPlain, Text: text[last:m[0]]})
		}
		inner := ""
		for g := 2; g+1 < len(m); g += 2 {
			if m[g] >= 0 {
				inner = text[m[g]:m[g+1]]
				break
			}
		}
		spans = append(spans, Span{Kind: SpanEmphasis, Text: inner})
		last = m[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Kind: SpanPlain, Text: text[last:]})
	}
	return spans
}

// Plain concatenates span texts, dropping the emphasis.
func Plain(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}
