package cmd

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/rubrical-studios/gh-deployflow/internal/changelog"
	"github.com/rubrical-studios/gh-deployflow/internal/git"
	"github.com/rubrical-studios/gh-deployflow/internal/ui"
	"github.com/spf13/cobra"
)

// TagLayout formats release tags, e.g. 2024.03.01.1030
const TagLayout = "2006.01.02.1504"

// tagReleaseGit defines the git operations used by tag-release.
type tagReleaseGit interface {
	CurrentBranch() (string, error)
	TopLevel() (string, error)
	Clean() (bool, error)
	Tags() ([]string, error)
	Add(paths ...string) error
	Commit(message string) error
	Push() error
	NewTag(name string) error
}

type tagReleaseOptions struct {
	force        bool
	notes        []string
	deployBranch string
	changelog    string
	now          func() time.Time
}

func newTagReleaseCommand() *cobra.Command {
	opts := &tagReleaseOptions{now: time.Now}

	cmd := &cobra.Command{
		Use:   "tag-release",
		Short: "Tag the deploy branch and record the release in the changelog",
		Long: `Tag the current commit of the deploy branch with a timestamp tag
(YYYY.MM.DD.HHMM), prepend a section for it to the changelog, commit and
push the changelog, then push the tag.

Examples:
  gh deployflow tag-release
  gh deployflow tag-release --note "Search (#42)" --note "Login fix (#7)"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTagRelease(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Tag even when not on the deploy branch")
	cmd.Flags().StringArrayVarP(&opts.notes, "note", "n", nil, "Changelog line for this release (repeatable)")

	return cmd
}

func runTagRelease(cmd *cobra.Command, opts *tagReleaseOptions) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	opts.deployBranch = env.settings.DeployBranch
	opts.changelog = env.cfg.GetChangelog()
	return runTagReleaseWithDeps(cmd, opts, env.git, env.notifier)
}

// runTagReleaseWithDeps is the testable implementation of runTagRelease
func runTagReleaseWithDeps(cmd *cobra.Command, opts *tagReleaseOptions, g tagReleaseGit, notifier announcer) error {
	current, err := g.CurrentBranch()
	if err != nil {
		return err
	}
	if current != opts.deployBranch && !opts.force {
		return fmt.Errorf("on %s, not the deploy branch %s; check out %s or use --force", current, opts.deployBranch, opts.deployBranch)
	}

	clean, err := g.Clean()
	if err != nil {
		return err
	}
	if !clean {
		return fmt.Errorf("cannot tag a release: %w", git.ErrDirtyTree)
	}

	root, err := g.TopLevel()
	if err != nil {
		return err
	}

	tag := opts.now().Format(TagLayout)
	existing, err := g.Tags()
	if err != nil {
		return err
	}
	if slices.Contains(existing, tag) {
		return fmt.Errorf("tag %s already exists; wait a minute and retry", tag)
	}

	path := filepath.Join(root, opts.changelog)
	if err := changelog.Prepend(path, changelog.Section(tag, opts.notes)); err != nil {
		return err
	}

	if err := g.Add(path); err != nil {
		return err
	}
	if err := g.Commit(fmt.Sprintf("Add %s to %s", tag, opts.changelog)); err != nil {
		return err
	}
	if err := g.Push(); err != nil {
		return err
	}
	if err := g.NewTag(tag); err != nil {
		return err
	}

	ui.New(cmd.OutOrStdout()).Success(fmt.Sprintf("Tagged %s", tag))
	announce(cmd, notifier, fmt.Sprintf("Tagged release %s", tag))
	return nil
}
