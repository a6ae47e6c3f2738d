package planner

// PromptKey identifies one of the planner's prompt templates.
type PromptKey string

const (
	KeyGenerateEmoji    PromptKey = "generate_emoji"
	KeyGenerateMarkdown PromptKey = "generate_markdown"
	KeyOptimize         PromptKey = "optimize"
	KeySummarize        PromptKey = "summarize"
)

// PromptKeys lists every key in a stable order.
var PromptKeys = []PromptKey{KeyGenerateEmoji, KeyGenerateMarkdown, KeyOptimize, KeySummarize}

// defaultPrompts maps each key to its built-in template.
var defaultPrompts = map[PromptKey]string{
	KeyGenerateEmoji:    generateEmojiPrompt,
	KeyGenerateMarkdown: generateMarkdownPrompt,
	KeyOptimize:         optimizePrompt,
	KeySummarize:        summarizePrompt,
}

// generateKeyFor returns the generation prompt matching a vocabulary name.
func generateKeyFor(vocabulary string) PromptKey {
	if vocabulary == "markdown" {
		return KeyGenerateMarkdown
	}
	return KeyGenerateEmoji
}

// generateData is the template input for both generation prompts.
type generateData struct {
	Topic         string
	Tasks         []string
	AvailableTime string
	Duration      string
	CustomGoals   string
}

type optimizeData struct {
	OriginalPlan string
	Instructions string
}

type summarizeData struct {
	Plan string
}

const generateEmojiPrompt = `You are an AI planning assistant. Generate a plan based on the following information.
VERY IMPORTANT:
- Do NOT use Markdown headings like #, ##, ###.
- Instead, use emojis to denote structure:
  - For the main plan title (if any), start the line with 📜 followed by a space.
  - For major sections (like days of the week or main time blocks), start the line with 📅 followed by a space.
  - For sub-sections (like Morning, Afternoon, Evening), start the line with ☀️ (Morning), 🌤️ (Afternoon), or 🌙 (Evening) followed by a space.
  - For a 'Tips for Success' section, if generated, start its title with 💡 followed by a space. List individual tips also using Markdown lists with a hyphen and a space ('- ').
- Do NOT use Markdown bold like **text**.
- Instead, to emphasize time or key activities, use the ⏰ emoji before the time/activity.
- Use Markdown lists with a hyphen and a space ('- ') for individual tasks and tips.

Example for a Daily plan:
📅 Monday, October 26th
☀️ Morning
- ⏰ 08:00 - 09:00: Breakfast and prepare for the day
- ⏰ 09:00 - 10:00: Deep work session 1
🌤️ Afternoon
- ⏰ 13:00 - 14:00: Lunch break
- ⏰ 14:00 - 15:00: Meetings
🌙 Evening
- ⏰ 19:00 - 20:00: Dinner
- ⏰ 20:00 - 21:00: Relax and unwind

Ensure the output is clean and well-structured, following these emoji and list guidelines.

Planning Topic: {{.Topic}}
Tasks:
{{range .Tasks}}- {{.}}
{{end}}Available Time: {{.AvailableTime}}
Plan Duration: {{.Duration}}
Custom Goals: {{if .CustomGoals}}{{.CustomGoals}}{{else}}None{{end}}

Generate a detailed and actionable plan.
After generating the core plan, include a 'Tips for Success' section. This section should start with '💡 Tips for Success' and contain 2-3 actionable tips relevant to the plan, formatted as a Markdown list.`

const generateMarkdownPrompt = `You are an AI planning assistant. Generate a plan based on the following information using Markdown formatting.
For {{.Duration}} plans, try to structure the output in a way that could be easily read in a table-like format.
Use Markdown headings for titles and sections (#, ##, ###). Use bold for emphasis on time or key activities. Use lists for tasks.

Example for a Daily plan:
## [Day Name or Date, e.g., Monday, October 26th]
### Morning
- **[Time Range e.g., 08:00 - 09:00]**: [Activity] - [Optional: Details/Notes]
- **[Time Range e.g., 09:00 - 10:00]**: [Activity] - [Optional: Details/Notes]
### Afternoon
- **[Time Range e.g., 13:00 - 14:00]**: [Activity] - [Optional: Details/Notes]
### Evening
- **[Time Range e.g., 19:00 - 20:00]**: [Activity] - [Optional: Details/Notes]

Example for a Weekly plan:
## Week of [Start Date]
### Monday
- **Focus:** [Main focus for Monday]
- **Tasks:**
  - [Task 1 description]
  - [Task 2 description]
### Tuesday
- **Focus:** [Main focus for Tuesday]
- **Tasks:**
  - [Task 1 description]
  - [Task 2 description]
... and so on for other days.

Ensure the output is clean, well-structured Markdown.

Planning Topic: {{.Topic}}
Tasks:
{{range .Tasks}}- {{.}}
{{end}}Available Time: {{.AvailableTime}}
Plan Duration: {{.Duration}}
Custom Goals: {{.CustomGoals}}

Generate a detailed and actionable plan as Markdown.`

const optimizePrompt = `You are an AI assistant specialized in optimizing plans.

Given the original plan and the optimization instructions, revise the plan accordingly.
Maintain the original format and structure of the plan as much as possible, while incorporating the new instructions.

Original Plan:
{{.OriginalPlan}}

Optimization Instructions:
{{.Instructions}}

Optimized Plan:
`

const summarizePrompt = `Summarize the following plan in a concise manner:

{{.Plan}}`
