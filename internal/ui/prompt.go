package ui

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
)

// ErrAborted is returned when the operator cancels a prompt
var ErrAborted = errors.New("aborted by user")

// Prompter asks questions on the terminal with huh forms
type Prompter struct {
	accessible bool
}

// NewPrompter creates a Prompter. Setting ACCESSIBLE in the environment
// switches to plain line-based prompts for screen readers and dumb terminals.
func NewPrompter() *Prompter {
	return &Prompter{accessible: os.Getenv("ACCESSIBLE") != ""}
}

// Ask presents choices and returns the selected one
func (p *Prompter) Ask(question string, choices []string) (string, error) {
	var choice string
	field := huh.NewSelect[string]().
		Title(question).
		Options(huh.NewOptions(choices...)...).
		Value(&choice)
	if err := p.run(field); err != nil {
		return "", err
	}
	return choice, nil
}

// AskBoolean asks a yes/no question
func (p *Prompter) AskBoolean(question string) (bool, error) {
	var confirmed bool
	field := huh.NewConfirm().
		Title(question).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed)
	if err := p.run(field); err != nil {
		return false, err
	}
	return confirmed, nil
}

// AskInput asks for a single line of text
func (p *Prompter) AskInput(question, placeholder string) (string, error) {
	var value string
	field := huh.NewInput().
		Title(question).
		Placeholder(placeholder).
		Value(&value)
	if err := p.run(field); err != nil {
		return "", err
	}
	return value, nil
}

// AskSecret asks for text without echoing it, such as a webhook URL with a token
func (p *Prompter) AskSecret(question string) (string, error) {
	var value string
	field := huh.NewInput().
		Title(question).
		EchoMode(huh.EchoModePassword).
		Value(&value)
	if err := p.run(field); err != nil {
		return "", err
	}
	return value, nil
}

func (p *Prompter) run(field huh.Field) error {
	err := huh.NewForm(huh.NewGroup(field)).
		WithAccessible(p.accessible).
		Run()
	return translateAbort(err)
}

func translateAbort(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}
