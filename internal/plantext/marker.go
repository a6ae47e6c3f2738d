// Package plantext turns model-generated plan text into an ordered sequence of
// typed blocks (headings, lists, paragraphs, spacers) and resolves inline
// emphasis inside them.
//
// Parsing is a single pass over the lines of the text and never fails: any
// input, including malformed model output, produces a valid block sequence.
// Rendering the blocks is left to the render package.
package plantext

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind is the block kind a single line classifies to.
type Kind int

const (
	KindParagraph Kind = iota
	KindHeading1
	KindHeading2
	KindHeading3
	KindListItem
	KindSpacer
)

func (k Kind) String() string {
	switch k {
	case KindHeading1:
		return "heading1"
	case KindHeading2:
		return "heading2"
	case KindHeading3:
		return "heading3"
	case KindListItem:
		return "list_item"
	case KindSpacer:
		return "spacer"
	default:
		return "paragraph"
	}
}

// HeadingLevel returns 1-3 for heading kinds and 0 otherwise.
func (k Kind) HeadingLevel() int {
	switch k {
	case KindHeading1:
		return 1
	case KindHeading2:
		return 2
	case KindHeading3:
		return 3
	default:
		return 0
	}
}

// Marker is a literal line prefix that identifies a block kind.
// Prefixes include the single separating space.
type Marker struct {
	Name     string
	Kind     Kind
	Prefixes []string
}

// Vocabulary name constants.
const (
	VocabularyEmoji    = "emoji"
	VocabularyMarkdown = "markdown"
)

// Vocabulary is one marker table plus the emphasis delimiters that go with it.
// Markers are tried in order; the first prefix match wins.
type Vocabulary struct {
	Name       string
	Markers    []Marker
	Delimiters []string

	emphasis *regexp.Regexp
}

// EmojiVocabulary is the default convention: the generation prompt asks the
// model for emoji line markers instead of Markdown headings.
var EmojiVocabulary = NewVocabulary(VocabularyEmoji, []Marker{
	{Name: "title", Kind: KindHeading1, Prefixes: []string{"📜 "}},
	{Name: "section", Kind: KindHeading2, Prefixes: []string{"📅 "}},
	{Name: "morning", Kind: KindHeading3, Prefixes: []string{"☀️ ", "☀ "}},
	{Name: "afternoon", Kind: KindHeading3, Prefixes: []string{"🌤️ ", "🌤 "}},
	{Name: "evening", Kind: KindHeading3, Prefixes: []string{"🌙 "}},
	{Name: "item", Kind: KindListItem, Prefixes: []string{"- "}},
}, "**")

// MarkdownVocabulary reads the plain Markdown heading/list convention.
var MarkdownVocabulary = NewVocabulary(VocabularyMarkdown, []Marker{
	{Name: "title", Kind: KindHeading1, Prefixes: []string{"# "}},
	{Name: "section", Kind: KindHeading2, Prefixes: []string{"## "}},
	{Name: "subsection", Kind: KindHeading3, Prefixes: []string{"### "}},
	{Name: "item", Kind: KindListItem, Prefixes: []string{"- ", "* "}},
}, "**", "__")

// NewVocabulary builds a vocabulary and compiles its emphasis pattern.
// Each delimiter wraps emphasized text symmetrically, e.g. "**" for **text**.
func NewVocabulary(name string, markers []Marker, delimiters ...string) *Vocabulary {
	alts := make([]string, 0, len(delimiters))
	for _, d := range delimiters {
		q := regexp.QuoteMeta(d)
		alts = append(alts, q+"(.*?)"+q)
	}
	v := &Vocabulary{
		Name:       name,
		Markers:    markers,
		Delimiters: delimiters,
	}
	if len(alts) > 0 {
		v.emphasis = regexp.MustCompile(strings.Join(alts, "|"))
	}
	return v
}

// VocabularyByName resolves a configured vocabulary name. Empty means emoji.
func VocabularyByName(name string) (*Vocabulary, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", VocabularyEmoji:
		return EmojiVocabulary, nil
	case VocabularyMarkdown:
		return MarkdownVocabulary, nil
	default:
		return nil, fmt.Errorf("unknown marker vocabulary %q (supported: %s, %s)", name, VocabularyEmoji, VocabularyMarkdown)
	}
}

// PrefixFor returns the canonical prefix the vocabulary uses for a kind, or ""
// when it has no marker for it.
func (v *Vocabulary) PrefixFor(kind Kind) string {
	for _, m := range v.Markers {
		if m.Kind == kind && len(m.Prefixes) > 0 {
			return m.Prefixes[0]
		}
	}
	return ""
}
