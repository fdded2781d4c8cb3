// Package deploy manages dated deploy branches: cutting a new branch of a
// type from the deploy branch, re-merging pull requests that the previous
// branch of that type carried, and merging single pull requests into the
// latest branch.
package deploy

import (
	"errors"
	"io"
	"time"

	"github.com/rubrical-studios/gh-deployflow/internal/api"
)

// Common errors
var (
	ErrInvalidBranchType = errors.New("invalid branch type")
	ErrNoBranchOfType    = errors.New("no branch of type")
	ErrMergeFailed       = errors.New("merge failed")
	ErrCheckoutFailed    = errors.New("checkout failed")
	ErrCommentFailed     = errors.New("comment failed")
)

// BranchLister lists remote branches by name prefix
type BranchLister interface {
	BranchesFor(prefix string) ([]string, error)
}

// Git is the version-control surface the workflow drives
type Git interface {
	BranchLister
	Clean() (bool, error)
	CheckOut(name string, pullAfter bool) error
	NewBranch(newName, sourceName string) error
	Merge(branch string) error
	Push() error
	DeleteBranch(name string) error
}

// GitHub is the pull request surface the workflow drives
type GitHub interface {
	PullRequest(repo string, number int) (*api.PullRequest, error)
	OpenPullRequestsWithLabel(repo, label string) ([]api.SearchItem, error)
	WriteComment(repo string, number int, body string) error
}

// Prompter asks the operator to decide. Implementations block until answered.
type Prompter interface {
	Ask(question string, choices []string) (string, error)
	AskBoolean(question string) (bool, error)
}

// BranchCreator creates and publishes a new dated branch
type BranchCreator interface {
	Create(t BranchType) (string, error)
}

// PullRequestMerger merges a single pull request into the latest branch of a type
type PullRequestMerger interface {
	Perform(t BranchType, number int) MergeResult
}

// Settings is the project configuration the workflow reads
type Settings struct {
	Repo              string
	DeployBranch      string
	UserNotifications []string
	// RemergeTypes lists the branch types whose creation offers re-merging
	RemergeTypes []BranchType
	// Now defaults to time.Now
	Now func() time.Time
}

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Workflow bundles the components wired against the same collaborators
type Workflow struct {
	Creator   *Creator
	Merger    *Merger
	Remerger  *Remerger
	Lifecycle *Lifecycle
}

// NewWorkflow wires every component. Messages for the operator go to out.
func NewWorkflow(git Git, gh GitHub, prompter Prompter, settings Settings, out io.Writer) *Workflow {
	creator := NewCreator(git, settings)
	merger := NewMerger(git, gh, creator, settings, out)
	remerger := NewRemerger(gh, merger, prompter, settings, out)
	return &Workflow{
		Creator:   creator,
		Merger:    merger,
		Remerger:  remerger,
		Lifecycle: NewLifecycle(git, creator, remerger, prompter, out),
	}
}
