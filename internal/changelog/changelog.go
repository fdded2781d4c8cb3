// Package changelog maintains the release changelog, newest release first.
package changelog

import (
	"fmt"
	"os"
	"strings"
)

// Section renders the changelog entry for a release tag
func Section(tag string, notes []string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("#### %s\n", tag))
	for _, note := range notes {
		note = strings.TrimSpace(note)
		if note == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("* %s\n", note))
	}
	return b.String()
}

// Prepend writes section above the existing contents of the changelog at
// path, creating the file when it does not exist.
func Prepend(path, section string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read changelog: %w", err)
	}

	content := strings.TrimRight(section, "\n") + "\n"
	if len(existing) > 0 {
		content += "\n" + string(existing)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write changelog: %w", err)
	}
	return nil
}
