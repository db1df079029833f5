package store

import "github.com/AlecAivazis/survey/v2"

// Prompter abstracts the interactive questions multikube asks, keeping the
// store logic testable without a terminal
type Prompter interface {
	// Input asks a free-form question and returns the entered text
	Input(message string) (string, error)

	// Select asks the user to pick exactly one of options
	Select(message string, options []string) (string, error)
}

// SurveyPrompter asks questions on the controlling terminal
type SurveyPrompter struct{}

// Input implements Prompter
func (SurveyPrompter) Input(message string) (string, error) {
	var answer string
	if err := survey.AskOne(&survey.Input{Message: message}, &answer); err != nil {
		return "", err
	}
	return answer, nil
}

// Select implements Prompter
func (SurveyPrompter) Select(message string, options []string) (string, error) {
	var answer string
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return "", err
	}
	return answer, nil
}
