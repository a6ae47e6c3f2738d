package render

import (
	"encoding/json"
	"io"

	"github.com/josephgoksu/PlanWise/internal/plantext"
	"gopkg.in/yaml.v3"
)

// JSON renders the Document form of the blocks.
type JSON struct {
	opts Options
}

func (j *JSON) Render(w io.Writer, blocks []plantext.Block) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(NewDocument(blocks, j.opts.vocab()))
}

// YAML renders the Document form of the blocks.
type YAML struct {
	opts Options
}

func (y *YAML) Render(w io.Writer, blocks []plantext.Block) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(blocks, y.opts.vocab())); err != nil {
		return err
	}
	return enc.Close()
}
