package ui

import (
	"fmt"
	"io"
)

// UI writes styled status lines to an output stream
type UI struct {
	out io.Writer
}

// New creates a UI writing to out
func New(out io.Writer) *UI {
	return &UI{out: out}
}

// Header prints a bold title with a muted subtitle
func (u *UI) Header(title, subtitle string) {
	fmt.Fprintln(u.out, HeaderStyle.Render(title))
	if subtitle != "" {
		fmt.Fprintln(u.out, Muted(subtitle))
	}
}

// Say prints msg unstyled
func (u *UI) Say(msg string) {
	fmt.Fprintln(u.out, msg)
}

// Success prints msg with a pass icon
func (u *UI) Success(msg string) {
	fmt.Fprintf(u.out, "%s %s\n", PassStyle.Render(IconPass), msg)
}

// Warning prints msg with a warning icon
func (u *UI) Warning(msg string) {
	fmt.Fprintf(u.out, "%s %s\n", WarnStyle.Render(IconWarn), msg)
}

// Error prints msg with a fail icon
func (u *UI) Error(msg string) {
	fmt.Fprintf(u.out, "%s %s\n", FailStyle.Render(IconFail), msg)
}

// Info prints msg with an info icon
func (u *UI) Info(msg string) {
	fmt.Fprintf(u.out, "%s %s\n", AccentStyle.Render(IconInfo), msg)
}

// Step prints a numbered progress line such as "[2/3] Creating labels"
func (u *UI) Step(n, total int, msg string) {
	fmt.Fprintf(u.out, "%s %s\n", MutedStyle.Render(fmt.Sprintf("[%d/%d]", n, total)), msg)
}
