package plantext

// BlockKind identifies the variant of a Block.
type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockList      BlockKind = "list"
	BlockParagraph BlockKind = "paragraph"
	BlockSpacer    BlockKind = "spacer"
)

// Block is one structural unit of a parsed plan. The set of implementations
// is closed: Heading, List, Paragraph and Spacer.
type Block interface {
	Kind() BlockKind
	// Line is the 0-based index of the first source line of the block.
	Line() int
	block()
}

// Heading is a title (level 1), section (level 2) or sub-section (level 3).
type Heading struct {
	Level int
	Text  string
	Index int
}

// List is a run of contiguous list-item lines. Items is never empty.
type List struct {
	Items []string
	Index int
}

// Paragraph is any line that carries no marker.
type Paragraph struct {
	Text  string
	Index int
}

// Spacer is a blank source line.
type Spacer struct {
	Index int
}

func (Heading) Kind() BlockKind   { return BlockHeading }
func (List) Kind() BlockKind      { return BlockList }
func (Paragraph) Kind() BlockKind { return BlockParagraph }
func (Spacer) Kind() BlockKind    { return BlockSpacer }

func (b Heading) Line() int   { return b.Index }
func (b List) Line() int      { return b.Index }
func (b Paragraph) Line() int { return b.Index }
func (b Spacer) Line() int    { return b.Index }

func (Heading) block()   {}
func (List) block()      {}
func (Paragraph) block() {}
func (Spacer) block()    {}

// Assemble folds classified lines into blocks. Contiguous list items collapse
// into one List; any other line closes the open list before emitting itself.
func Assemble(lines []Classified) []Block {
	blocks := make([]Block, 0, len(lines))
	var pending []string
	pendingAt := 0

	flush := func() {
		if len(pending) == 0 {
			return
		}
		blocks = append(blocks, List{Items: pending, Index: pendingAt})
		pending = nil
	}

	for _, l := range lines {
		switch l.Kind {
		case KindListItem:
			if len(pending) == 0 {
				pendingAt = l.Index
			}
			pending = append(pending, l.Content)
			continue
		case KindHeading1, KindHeading2, KindHeading3:
			flush()
			blocks = append(blocks, Heading{Level: l.Kind.HeadingLevel(), Text: l.Content, Index: l.Index})
		case KindSpacer:
			flush()
			blocks = append(blocks, Spacer{Index: l.Index})
		default:
			flush()
			blocks = append(blocks, Paragraph{Text: l.Content, Index: l.Index})
		}
	}
	flush()
	return blocks
}

// BlockText returns the textual payloads of a block: one entry for headings
// and paragraphs, one per item for lists, none for spacers.
func BlockText(b Block) []string {
	switch v := b.(type) {
	case Heading:
		return []string{v.Text}
	case Paragraph:
		return []string{v.Text}
	case List:
		return v.Items
	default:
		return nil
	}
}

// Stats counts blocks by kind.
func Stats(blocks []Block) map[BlockKind]int {
	out := make(map[BlockKind]int, 4)
	for _, b := range blocks {
		out[b.Kind()]++
	}
	return out
}
