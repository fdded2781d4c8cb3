package deploy

import (
	"fmt"
	"io"
)

// Re-merge choices offered to the operator
const (
	RemergeNone = "none"
	RemergeAll  = "all"
)

// Remerger reapplies pull requests that were deployed to an earlier branch
// of a type onto the branch that replaced it.
type Remerger struct {
	gh       GitHub
	merger   PullRequestMerger
	prompter Prompter
	settings Settings
	out      io.Writer
}

// NewRemerger creates a Remerger
func NewRemerger(gh GitHub, merger PullRequestMerger, prompter Prompter, settings Settings, out io.Writer) *Remerger {
	return &Remerger{
		gh:       gh,
		merger:   merger,
		prompter: prompter,
		settings: settings,
		out:      out,
	}
}

// Enabled reports whether branches of type t offer re-merging
func (r *Remerger) Enabled(t BranchType) bool {
	for _, allowed := range r.settings.RemergeTypes {
		if allowed == t {
			return true
		}
	}
	return false
}

// Merge finds open pull requests labeled as deployed to t and merges the
// selected ones into the latest branch of t, one at a time. A failed pull
// request does not stop the others; every outcome is returned.
func (r *Remerger) Merge(t BranchType, autoRemergeAll bool) ([]MergeResult, error) {
	if !r.Enabled(t) {
		return nil, nil
	}

	candidates, err := r.gh.OpenPullRequestsWithLabel(r.settings.Repo, t.DeployedLabel())
	if err != nil {
		return nil, fmt.Errorf("failed to find pull requests labeled %s: %w", t.DeployedLabel(), err)
	}
	if len(candidates) == 0 {
		fmt.Fprintf(r.out, "No open pull requests labeled %s to re-merge\n", t.DeployedLabel())
		return nil, nil
	}

	if !autoRemergeAll {
		fmt.Fprintf(r.out, "Pull requests previously merged into %s:\n", t)
		for _, pr := range candidates {
			fmt.Fprintf(r.out, "  #%d %s %s\n", pr.Number, pr.Title, pr.HTMLURL)
		}
		choice, err := r.prompter.Ask("Re-merge which pull requests?", []string{RemergeNone, RemergeAll})
		if err != nil {
			return nil, err
		}
		if choice != RemergeAll {
			return nil, nil
		}
	}

	results := make([]MergeResult, 0, len(candidates))
	for _, pr := range candidates {
		results = append(results, r.merger.Perform(t, pr.Number))
	}
	return results, nil
}
