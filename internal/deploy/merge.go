package deploy

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rubrical-studios/gh-deployflow/internal/api"
	"github.com/rubrical-studios/gh-deployflow/internal/git"
)

// Outcome is the result of merging one pull request
type Outcome int

const (
	OutcomeMerged Outcome = iota
	// OutcomeSkipped means the working tree was dirty and nothing was touched
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMerged:
		return "merged"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// MergeResult records what happened to one pull request
type MergeResult struct {
	PullRequest int
	Target      string
	Outcome     Outcome
	Err         error
}

// OK reports whether the pull request was merged
func (r MergeResult) OK() bool {
	return r.Outcome == OutcomeMerged
}

// CommentBody is the tracking comment left on a merged pull request
func CommentBody(target string, users []string) string {
	body := fmt.Sprintf("Merged into %s.", target)
	if len(users) == 0 {
		return body
	}
	mentions := make([]string, len(users))
	for i, user := range users {
		mentions[i] = "@" + strings.TrimPrefix(user, "@")
	}
	return body + " /cc " + strings.Join(mentions, " ")
}

// Merger merges a pull request's branch into the latest branch of a type
type Merger struct {
	git      Git
	gh       GitHub
	creator  BranchCreator
	settings Settings
	out      io.Writer
}

// NewMerger creates a Merger. creator supplies a branch when none of the
// requested type exists yet.
func NewMerger(g Git, gh GitHub, creator BranchCreator, settings Settings, out io.Writer) *Merger {
	return &Merger{
		git:      g,
		gh:       gh,
		creator:  creator,
		settings: settings,
		out:      out,
	}
}

// Perform merges pull request number into the latest branch of type t,
// pushes it and comments on the pull request. Failures are reported to the
// operator and returned in the result, never as a panic or error return, so
// callers looping over many pull requests can carry on.
func (m *Merger) Perform(t BranchType, number int) MergeResult {
	result := MergeResult{PullRequest: number}

	pr, target, err := m.merge(t, number)
	result.Target = target
	switch {
	case err != nil:
		result.Outcome = OutcomeFailed
		result.Err = err
		m.report(number, target, pr, err)
	case pr == nil:
		result.Outcome = OutcomeSkipped
	default:
		result.Outcome = OutcomeMerged
		fmt.Fprintf(m.out, "Merged #%d into %s\n", number, target)
	}
	return result
}

// merge returns a nil pull request and nil error when the tree is dirty
func (m *Merger) merge(t BranchType, number int) (*api.PullRequest, string, error) {
	if !t.Valid() {
		return nil, "", fmt.Errorf("%w: %s", ErrInvalidBranchType, t)
	}

	pr, err := m.gh.PullRequest(m.settings.Repo, number)
	if err != nil {
		return nil, "", err
	}

	clean, err := m.git.Clean()
	if err != nil {
		return pr, "", err
	}
	if !clean {
		return nil, "", nil
	}

	target, err := LatestBranchFor(m.git, t)
	if errors.Is(err, ErrNoBranchOfType) {
		target, err = m.creator.Create(t)
	}
	if err != nil {
		if errors.Is(err, git.ErrCheckoutMismatch) {
			err = fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
		}
		return pr, target, err
	}

	if err := m.git.CheckOut(target, true); err != nil {
		return pr, target, fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
	}

	if err := m.git.Merge(pr.Branch); err != nil {
		if errors.Is(err, git.ErrMergeConflict) {
			return pr, target, fmt.Errorf("%w: %w", ErrMergeFailed, err)
		}
		return pr, target, err
	}

	if err := m.git.Push(); err != nil {
		return pr, target, err
	}

	body := CommentBody(target, m.settings.UserNotifications)
	if err := m.gh.WriteComment(m.settings.Repo, number, body); err != nil {
		return pr, target, fmt.Errorf("%w: %w", ErrCommentFailed, err)
	}
	return pr, target, nil
}

// report prints exactly one line telling the operator what to do next
func (m *Merger) report(number int, target string, pr *api.PullRequest, err error) {
	switch {
	case api.IsNotFound(err) && pr == nil:
		fmt.Fprintf(m.out, "Unable to find pull request #%d. Please retry with a valid pull request ID.\n", number)
	case errors.Is(err, ErrMergeFailed):
		fmt.Fprintf(m.out, "Merging #%d into %s produced conflicts. Resolve them on the pull request branch %s and retry; conflicts resolved on %s are discarded on the next redeploy.\n",
			number, target, pr.Branch, target)
	case errors.Is(err, ErrCheckoutFailed):
		fmt.Fprintf(m.out, "Unable to check out %s. Please contact your infrastructure team for help with this repository.\n", target)
	case errors.Is(err, ErrCommentFailed):
		fmt.Fprintf(m.out, "Merged #%d into %s but could not comment on it. Please add this comment manually at %s: %s\n",
			number, target, pr.URL, CommentBody(target, m.settings.UserNotifications))
	default:
		fmt.Fprintf(m.out, "An unknown error occurred while merging #%d: %v\n", number, err)
	}
}
