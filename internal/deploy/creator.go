package deploy

import (
	"fmt"

	"github.com/rubrical-studios/gh-deployflow/internal/git"
)

// Creator cuts dated branches from the deploy branch
type Creator struct {
	git      Git
	settings Settings
}

// NewCreator creates a Creator
func NewCreator(g Git, settings Settings) *Creator {
	return &Creator{git: g, settings: settings}
}

// Create cuts today's branch of type t from the deploy branch, checks it out
// and pushes it. Running twice on the same day resets and re-publishes the
// same branch name.
func (c *Creator) Create(t BranchType) (string, error) {
	name, err := BranchName(t, c.settings.now())
	if err != nil {
		return "", err
	}

	clean, err := c.git.Clean()
	if err != nil {
		return "", err
	}
	if !clean {
		return "", fmt.Errorf("cannot create %s: %w", name, git.ErrDirtyTree)
	}

	if err := c.git.NewBranch(name, c.settings.DeployBranch); err != nil {
		return "", err
	}
	return name, nil
}
