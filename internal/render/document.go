package render

import "github.com/josephgoksu/PlanWise/internal/plantext"

// Document is the serializable form of a parsed plan, shared by the JSON and
// YAML renderers and the HTTP API.
type Document struct {
	Markers string     `json:"markers" yaml:"markers"`
	Blocks  []DocBlock `json:"blocks" yaml:"blocks"`
}

// DocBlock is one block with its payload already resolved into spans.
type DocBlock struct {
	Kind  plantext.BlockKind `json:"kind" yaml:"kind"`
	Line  int                `json:"line" yaml:"line"`
	Level int                `json:"level,omitempty" yaml:"level,omitempty"`
	Spans []plantext.Span    `json:"spans,omitempty" yaml:"spans,omitempty"`
	Items [][]plantext.Span  `json:"items,omitempty" yaml:"items,omitempty"`
}

// NewDocument resolves the spans of every block with v.
func NewDocument(blocks []plantext.Block, v *plantext.Vocabulary) Document {
	if v == nil {
		v = plantext.EmojiVocabulary
	}
	doc := Document{Markers: v.Name, Blocks: make([]DocBlock, 0, len(blocks))}
	for _, b := range blocks {
		db := DocBlock{Kind: b.Kind(), Line: b.Line()}
		switch blk := b.(type) {
		case plantext.Heading:
			db.Level = blk.Level
			db.Spans = v.Spans(blk.Text)
		case plantext.Paragraph:
			db.Spans = v.Spans(blk.Text)
		case plantext.List:
			db.Items = make([][]plantext.Span, len(blk.Items))
			for i, item := range blk.Items {
				db.Items[i] = v.Spans(item)
			}
		}
		doc.Blocks = append(doc.Blocks, db)
	}
	return doc
}
