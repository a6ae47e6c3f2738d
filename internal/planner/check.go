package planner

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/PlanWise/internal/plantext"
)

// Warning types reported by Check.
const (
	WarnNoHeadings     = "no_headings"
	WarnForeignMarkers = "foreign_markers"
	WarnNoTips         = "no_tips"
)

// Warning is a non-blocking issue with a generated plan's structure.
type Warning struct {
	Type    string `json:"type"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// CheckResult summarises the structure of a parsed plan.
type CheckResult struct {
	Warnings []Warning                   `json:"warnings,omitempty"`
	Stats    map[plantext.BlockKind]int `json:"stats"`
}

// WarningSummary returns a single string summarizing all warnings.
func (r CheckResult) WarningSummary() string {
	var parts []string
	for _, w := range r.Warnings {
		parts = append(parts, w.Message)
	}
	return strings.Join(parts, "; ")
}

// Check inspects blocks parsed with vocab for signs that the model ignored
// the requested marker convention. expectTips asks for the emoji prompt's
// "💡 Tips for Success" section.
func Check(blocks []plantext.Block, vocab *plantext.Vocabulary, expectTips bool) CheckResult {
	res := CheckResult{Stats: plantext.Stats(blocks)}
	if len(blocks) == 0 {
		return res
	}

	other := plantext.MarkdownVocabulary
	if vocab != nil && vocab.Name == plantext.VocabularyMarkdown {
		other = plantext.EmojiVocabulary
	}

	foreign := 0
	firstForeign := -1
	tips := false
	for _, b := range blocks {
		p, ok := b.(plantext.Paragraph)
		if !ok {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(p.Text), "💡") {
			tips = true
		}
		if kind, _ := other.Classify(p.Text); kind.HeadingLevel() > 0 {
			if firstForeign < 0 {
				firstForeign = p.Index
			}
			foreign++
		}
	}

	if res.Stats[plantext.BlockHeading] == 0 {
		res.Warnings = append(res.Warnings, Warning{
			Type:    WarnNoHeadings,
			Line:    blocks[0].Line(),
			Message: "plan has no headings",
		})
	}
	if foreign > 0 {
		res.Warnings = append(res.Warnings, Warning{
			Type:    WarnForeignMarkers,
			Line:    firstForeign,
			Message: fmt.Sprintf("%d line(s) use %s headings; try rendering with --markers %s", foreign, other.Name, other.Name),
		})
	}
	if expectTips && !tips {
		res.Warnings = append(res.Warnings, Warning{
			Type:    WarnNoTips,
			Line:    blocks[len(blocks)-1].Line(),
			Message: "plan has no 💡 Tips for Success section",
		})
	}
	return res
}
