package git

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Remote is the remote every operation reads from and publishes to
const Remote = "origin"

// Common errors
var (
	ErrDirtyTree        = errors.New("working tree has uncommitted changes")
	ErrCheckoutMismatch = errors.New("checkout did not land on the requested branch")
	ErrMergeConflict    = errors.New("merge left the working tree unclean")
)

// Git provides the version-control operations used by the deploy workflow.
// Every call shells out through the configured CommandExecutor.
type Git struct {
	exec CommandExecutor
}

// New creates a Git facade over exec
func New(exec CommandExecutor) *Git {
	return &Git{exec: exec}
}

func (g *Git) run(args ...string) (string, error) {
	return g.exec.Run("git", args...)
}

// CurrentBranch returns the name of the checked-out branch
func (g *Git) CurrentBranch() (string, error) {
	out, err := g.run("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to read current branch: %w", err)
	}
	return out, nil
}

// TopLevel returns the absolute path of the working tree root
func (g *Git) TopLevel() (string, error) {
	out, err := g.run("rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not inside a git repository: %w", err)
	}
	return out, nil
}

// Fetch refreshes remote-tracking refs, pruning branches deleted on the remote
func (g *Git) Fetch() error {
	if _, err := g.run("fetch", "--prune", Remote); err != nil {
		return fmt.Errorf("git fetch failed: %w", err)
	}
	return nil
}

// Pull merges upstream changes into the current branch
func (g *Git) Pull() error {
	if _, err := g.run("pull"); err != nil {
		return fmt.Errorf("git pull failed: %w", err)
	}
	return nil
}

// Push publishes the current branch to its upstream
func (g *Git) Push() error {
	branch, err := g.CurrentBranch()
	if err != nil {
		return err
	}
	if _, err := g.run("push", "--set-upstream", Remote, branch); err != nil {
		return fmt.Errorf("git push failed: %w", err)
	}
	return nil
}

// Clean reports whether the working tree has no uncommitted changes
func (g *Git) Clean() (bool, error) {
	out, err := g.run("status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("failed to check git status: %w", err)
	}
	return out == "", nil
}

// CheckOut switches to name, optionally pulling afterwards, and verifies that
// the switch actually happened.
func (g *Git) CheckOut(name string, pullAfter bool) error {
	if err := g.Fetch(); err != nil {
		return err
	}
	if _, err := g.run("checkout", name); err != nil {
		return fmt.Errorf("git checkout %s failed: %w", name, err)
	}
	if pullAfter {
		if err := g.Pull(); err != nil {
			return err
		}
	}
	return g.verifyCurrent(name)
}

func (g *Git) verifyCurrent(name string) error {
	current, err := g.CurrentBranch()
	if err != nil {
		return err
	}
	if current != name {
		return fmt.Errorf("%w: expected %s, on %s", ErrCheckoutMismatch, name, current)
	}
	return nil
}

// NewBranch creates newName from origin/sourceName without keeping a tracking
// relationship, checks it out and publishes it. Re-creating a branch that
// already exists resets it and overwrites the remote ref.
func (g *Git) NewBranch(newName, sourceName string) error {
	if err := g.Fetch(); err != nil {
		return err
	}
	source := Remote + "/" + sourceName
	if _, err := g.run("checkout", "--no-track", "-B", newName, source); err != nil {
		return fmt.Errorf("failed to create branch %s from %s: %w", newName, source, err)
	}
	if err := g.verifyCurrent(newName); err != nil {
		return err
	}
	if _, err := g.run("push", "--force-with-lease", "--set-upstream", Remote, newName); err != nil {
		return fmt.Errorf("failed to publish branch %s: %w", newName, err)
	}
	return nil
}

// Merge merges origin/branch into the current branch with a merge commit.
// A merge that stops with conflicts returns ErrMergeConflict.
func (g *Git) Merge(branch string) error {
	if err := g.Fetch(); err != nil {
		return err
	}
	_, mergeErr := g.run("merge", "--no-ff", Remote+"/"+branch)

	clean, err := g.Clean()
	if err != nil {
		return err
	}
	if !clean {
		return fmt.Errorf("%w: merging %s", ErrMergeConflict, branch)
	}
	if mergeErr != nil {
		return fmt.Errorf("git merge %s failed: %w", branch, mergeErr)
	}
	return nil
}

// BranchesFor lists remote branches starting with prefix, with the remote
// name stripped. The result is sorted and free of duplicates. Remote state is
// fetched on every call.
func (g *Git) BranchesFor(prefix string) ([]string, error) {
	if err := g.Fetch(); err != nil {
		return nil, err
	}
	out, err := g.run("branch", "--remotes", "--list", Remote+"/"+prefix+"*")
	if err != nil {
		return nil, fmt.Errorf("failed to list remote branches: %w", err)
	}
	return parseRemoteBranches(out, prefix), nil
}

func parseRemoteBranches(out, prefix string) []string {
	seen := make(map[string]bool)
	var branches []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
		if line == "" || strings.Contains(line, "->") {
			continue
		}
		name := strings.TrimPrefix(line, Remote+"/")
		if !strings.HasPrefix(name, prefix) || seen[name] {
			continue
		}
		seen[name] = true
		branches = append(branches, name)
	}
	sort.Strings(branches)
	return branches
}

// DeleteBranch removes name from the remote, then deletes the local copy if
// one exists.
func (g *Git) DeleteBranch(name string) error {
	if _, err := g.run("push", Remote, "--delete", name); err != nil {
		return fmt.Errorf("failed to delete remote branch %s: %w", name, err)
	}
	if _, err := g.run("branch", "-D", name); err != nil && !isBranchNotFound(err) {
		return fmt.Errorf("failed to delete local branch %s: %w", name, err)
	}
	return nil
}

func isBranchNotFound(err error) bool {
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	return strings.Contains(cmdErr.Output, "not found")
}

// NewTag creates tag at HEAD and publishes it
func (g *Git) NewTag(name string) error {
	if _, err := g.run("tag", name); err != nil {
		return fmt.Errorf("git tag failed: %w", err)
	}
	if _, err := g.run("push", Remote, name); err != nil {
		return fmt.Errorf("failed to push tag %s: %w", name, err)
	}
	return nil
}

// Tags returns all tags, sorted
func (g *Git) Tags() ([]string, error) {
	out, err := g.run("tag", "--list")
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	var tags []string
	for _, line := range strings.Split(out, "\n") {
		if tag := strings.TrimSpace(line); tag != "" {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags, nil
}

// Add stages paths
func (g *Git) Add(paths ...string) error {
	args := append([]string{"add"}, paths...)
	if _, err := g.run(args...); err != nil {
		return fmt.Errorf("git add failed: %w", err)
	}
	return nil
}

// Commit records staged changes with message
func (g *Git) Commit(message string) error {
	if _, err := g.run("commit", "-m", message); err != nil {
		return fmt.Errorf("git commit failed: %w", err)
	}
	return nil
}
