package plantext

import "strings"

// Line is one unit of input text.
type Line struct {
	Text  string // without the trailing "\r"
	Index int    // 0-based position in the source text
	CR    bool   // a trailing "\r" was stripped
}

// Classified is a line with its kind and the content left after its marker.
type Classified struct {
	Line
	Kind    Kind
	Content string
}

// SplitLines splits text on "\n". A single trailing "\n" ends the last line
// instead of starting an empty one, so "" has no lines and "\n" has one.
func SplitLines(text string) []Line {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	raw := strings.Split(text, "\n")
	lines := make([]Line, len(raw))
	for i, s := range raw {
		cr := strings.HasSuffix(s, "\r")
		if cr {
			s = s[:len(s)-1]
		}
		lines[i] = Line{Text: s, Index: i, CR: cr}
	}
	return lines
}

// Classify returns the kind of a single line and its content with the marker
// removed. A trailing "\r" is stripped first. It never fails.
func (v *Vocabulary) Classify(line string) (Kind, string) {
	line = strings.TrimSuffix(line, "\r")
	for _, m := range v.Markers {
		for _, p := range m.Prefixes {
			if strings.HasPrefix(line, p) {
				return m.Kind, line[len(p):]
			}
		}
	}
	if strings.TrimSpace(line) == "" {
		return KindSpacer, ""
	}
	return KindParagraph, line
}

// ClassifyLines classifies every line in order.
func (v *Vocabulary) ClassifyLines(lines []Line) []Classified {
	out := make([]Classified, len(lines))
	for i, l := range lines {
		kind, content := v.Classify(l.Text)
		out[i] = Classified{Line: l, Kind: kind, Content: content}
	}
	return out
}
