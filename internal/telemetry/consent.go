package telemetry

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const consentText = `
Help improve PlanWise?

PlanWise can send anonymous usage statistics: which commands ran, the
provider and plan topic used, and whether generation succeeded.
Your tasks, goals and plan text are never sent.

Change this anytime with: planwise telemetry disable
`

// PromptForConsent asks once whether telemetry may be enabled, saves the
// answer and returns it. Anything but an explicit yes leaves it disabled.
func PromptForConsent(cfg *Config, in io.Reader, out io.Writer) (bool, error) {
	fmt.Fprint(out, consentText)
	fmt.Fprint(out, "\nEnable anonymous telemetry? [y/N] ")

	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))

	if answer == "y" || answer == "yes" {
		cfg.Enable()
	} else {
		cfg.Disable()
	}
	if err := cfg.Save(); err != nil {
		return false, err
	}
	return cfg.Enabled, nil
}
