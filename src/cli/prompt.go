package cli

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"
)

// PromptYN shows a yes/no prompt for the given question.
// It returns true if the answer was affirmative.
func PromptYN(msg string, defaultYes bool) bool {
	prompt := promptui.Prompt{
		Label:     msg,
		IsConfirm: true,
		Default:   "N",
	}
	if defaultYes {
		prompt.Default = "Y"
	}
	_, err := prompt.Run()
	return confirmed(err)
}

// confirmed interprets the result of a confirmation prompt. promptui returns ErrAbort when the
// answer is n (or that's the default), ErrInterrupt on ^C and ErrEOF if input ends.
func confirmed(err error) bool {
	if err != nil {
		log.Debug("Prompt not confirmed: %s", err)
		return false
	}
	return true
}

// Prompt asks for a value that must not be empty.
// The answer is returned trimmed of surrounding whitespace.
func Prompt(msg string) (string, error) {
	prompt := promptui.Prompt{
		Label:    msg,
		Validate: validateNotEmpty,
	}
	result, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}

// PromptSecret asks for a value that must not be empty, masking what's typed.
// The answer is returned trimmed of surrounding whitespace.
func PromptSecret(msg string) (string, error) {
	prompt := promptui.Prompt{
		Label:    msg,
		Mask:     '*',
		Validate: validateNotEmpty,
	}
	result, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}

func validateNotEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("a value is required")
	}
	return nil
}
