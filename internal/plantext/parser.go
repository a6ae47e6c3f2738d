package plantext

// Parser parses plan text with one vocabulary. It holds no mutable state and
// is safe for concurrent use.
type Parser struct {
	vocab *Vocabulary
}

// NewParser returns a parser for v. A nil vocabulary means EmojiVocabulary.
func NewParser(v *Vocabulary) *Parser {
	if v == nil {
		v = EmojiVocabulary
	}
	return &Parser{vocab: v}
}

// Vocabulary returns the marker table the parser reads.
func (p *Parser) Vocabulary() *Vocabulary { return p.vocab }

// Parse converts plan text into blocks in source order.
func (p *Parser) Parse(text string) []Block {
	return Assemble(p.vocab.ClassifyLines(SplitLines(text)))
}

// Spans resolves inline emphasis in one block payload.
func (p *Parser) Spans(text string) []Span {
	return p.vocab.Spans(text)
}

var defaultParser = NewParser(EmojiVocabulary)

// Parse parses text with the default emoji vocabulary.
func Parse(text string) []Block {
	return defaultParser.Parse(text)
}
