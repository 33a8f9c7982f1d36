package console

import (
	"os"

	"github.com/AlecAivazis/survey/v2"
	"golang.org/x/term"
)

// Asker asks the operator questions
type Asker interface {
	Select(message string, options []string) (string, error)
	Confirm(message string, def bool) (bool, error)
}

// SurveyAsker asks through terminal prompts
type SurveyAsker struct{}

// Select asks the operator to pick one option
func (SurveyAsker) Select(message string, options []string) (string, error) {
	prompt := &survey.Select{
		Message:  message,
		Options:  options,
		PageSize: 12,
	}

	var result string
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

// Confirm asks a yes/no question
func (SurveyAsker) Confirm(message string, def bool) (bool, error) {
	prompt := &survey.Confirm{
		Message: message,
		Default: def,
	}

	var result bool
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// IsInteractive reports whether stdin and stdout are both terminals
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
