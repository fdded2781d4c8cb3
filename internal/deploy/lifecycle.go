package deploy

import (
	"fmt"
	"io"
	"strings"
)

// LifecycleOptions controls reconciliation after a new branch is created
type LifecycleOptions struct {
	// DeleteOldBranches deletes superseded branches without asking
	DeleteOldBranches bool
	// RemergeAll re-merges every candidate pull request without asking
	RemergeAll bool
}

// LifecycleResult describes what a lifecycle run changed
type LifecycleResult struct {
	Branch   string
	Remerged []MergeResult
	Deleted  []string
}

// remergeCoordinator is satisfied by *Remerger
type remergeCoordinator interface {
	Merge(t BranchType, autoRemergeAll bool) ([]MergeResult, error)
}

// Lifecycle creates a new dated branch and reconciles what older branches
// of the same type left behind.
type Lifecycle struct {
	git      Git
	creator  BranchCreator
	remerger remergeCoordinator
	prompter Prompter
	out      io.Writer
}

// NewLifecycle creates a Lifecycle
func NewLifecycle(g Git, creator BranchCreator, remerger remergeCoordinator, prompter Prompter, out io.Writer) *Lifecycle {
	return &Lifecycle{
		git:      g,
		creator:  creator,
		remerger: remerger,
		prompter: prompter,
		out:      out,
	}
}

// Perform creates today's branch of type t, re-merges deployed pull requests
// into it, then deletes or offers to delete the branches it supersedes.
// The steps run strictly in that order and any error stops the run.
func (l *Lifecycle) Perform(t BranchType, opts LifecycleOptions) (*LifecycleResult, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBranchType, t)
	}

	name, err := l.creator.Create(t)
	if err != nil {
		return nil, err
	}
	result := &LifecycleResult{Branch: name}

	result.Remerged, err = l.remerger.Merge(t, opts.RemergeAll)
	if err != nil {
		return result, err
	}

	branches, err := l.git.BranchesFor(t.Prefix())
	if err != nil {
		return result, err
	}
	extra := ExtraBranches(branches, name)
	if len(extra) == 0 {
		return result, nil
	}

	if !opts.DeleteOldBranches {
		fmt.Fprintf(l.out, "Found %d older %s branches:\n", len(extra), t)
		for _, branch := range extra {
			fmt.Fprintf(l.out, "  %s\n", branch)
		}
		confirmed, err := l.prompter.AskBoolean(fmt.Sprintf("Delete %s?", strings.Join(extra, ", ")))
		if err != nil {
			return result, err
		}
		if !confirmed {
			return result, nil
		}
	}

	for _, branch := range extra {
		if err := l.git.DeleteBranch(branch); err != nil {
			return result, fmt.Errorf("failed to delete %s: %w", branch, err)
		}
		result.Deleted = append(result.Deleted, branch)
	}

	return result, nil
}
