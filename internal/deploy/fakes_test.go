package deploy

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rubrical-studios/gh-deployflow/internal/api"
	"github.com/rubrical-studios/gh-deployflow/internal/git"
)

// fixedNow is 2024-03-01, the date used throughout the scenarios
func fixedNow() time.Time {
	return time.Date(2024, time.March, 1, 10, 30, 0, 0, time.UTC)
}

// fakeGit simulates a remote branch set and records every mutating call
type fakeGit struct {
	remote   []string
	current  string
	dirty    bool
	conflict bool

	cleanErr     error
	newBranchErr error
	checkoutErr  error
	pullErr      error
	pushErr      error
	deleteErr    error
	listErr      error

	calls []string
}

func (f *fakeGit) record(format string, args ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeGit) called(prefix string) int {
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeGit) BranchesFor(prefix string) ([]string, error) {
	f.record("branches-for %s", prefix)
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []string
	for _, b := range f.remote {
		if strings.HasPrefix(b, prefix) {
			out = append(out, b)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeGit) Clean() (bool, error) {
	if f.cleanErr != nil {
		return false, f.cleanErr
	}
	return !f.dirty, nil
}

func (f *fakeGit) CheckOut(name string, pullAfter bool) error {
	f.record("checkout %s", name)
	if f.checkoutErr != nil {
		return f.checkoutErr
	}
	f.current = name
	if pullAfter {
		f.record("pull %s", name)
		return f.pullErr
	}
	return nil
}

func (f *fakeGit) NewBranch(newName, sourceName string) error {
	f.record("new-branch %s from %s", newName, sourceName)
	if f.newBranchErr != nil {
		return f.newBranchErr
	}
	f.current = newName
	for _, b := range f.remote {
		if b == newName {
			return nil
		}
	}
	f.remote = append(f.remote, newName)
	return nil
}

func (f *fakeGit) Merge(branch string) error {
	f.record("merge %s", branch)
	if f.conflict {
		f.dirty = true
		return fmt.Errorf("%w: merging %s", git.ErrMergeConflict, branch)
	}
	return nil
}

func (f *fakeGit) Push() error {
	f.record("push %s", f.current)
	return f.pushErr
}

func (f *fakeGit) DeleteBranch(name string) error {
	f.record("delete %s", name)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.remote[:0]
	for _, b := range f.remote {
		if b != name {
			kept = append(kept, b)
		}
	}
	f.remote = kept
	return nil
}

type comment struct {
	repo   string
	number int
	body   string
}

// fakeGitHub serves canned pull requests and records comments and searches
type fakeGitHub struct {
	pulls      map[int]*api.PullRequest
	labeled    map[string][]api.SearchItem
	searchErr  error
	commentErr error

	searches []string
	comments []comment
}

func (f *fakeGitHub) PullRequest(repo string, number int) (*api.PullRequest, error) {
	pr, ok := f.pulls[number]
	if !ok {
		return nil, &api.APIError{Operation: "get pull request", Resource: fmt.Sprintf("%s#%d", repo, number), Err: api.ErrNotFound}
	}
	return pr, nil
}

func (f *fakeGitHub) OpenPullRequestsWithLabel(repo, label string) ([]api.SearchItem, error) {
	f.searches = append(f.searches, label)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.labeled[label], nil
}

func (f *fakeGitHub) WriteComment(repo string, number int, body string) error {
	if f.commentErr != nil {
		return f.commentErr
	}
	f.comments = append(f.comments, comment{repo: repo, number: number, body: body})
	return nil
}

// fakePrompter answers with canned values and records the questions
type fakePrompter struct {
	choice  string
	confirm bool
	err     error
	asked   []string
	choices [][]string
}

func (f *fakePrompter) Ask(question string, choices []string) (string, error) {
	f.asked = append(f.asked, question)
	f.choices = append(f.choices, choices)
	return f.choice, f.err
}

func (f *fakePrompter) AskBoolean(question string) (bool, error) {
	f.asked = append(f.asked, question)
	return f.confirm, f.err
}

// fakeMerger records merge requests without touching git
type fakeMerger struct {
	fail   map[int]bool
	merged []int
}

func (f *fakeMerger) Perform(t BranchType, number int) MergeResult {
	f.merged = append(f.merged, number)
	if f.fail[number] {
		return MergeResult{PullRequest: number, Outcome: OutcomeFailed, Err: ErrMergeFailed}
	}
	return MergeResult{PullRequest: number, Outcome: OutcomeMerged}
}

func testSettings() Settings {
	return Settings{
		Repo:         "acme/app",
		DeployBranch: "master",
		RemergeTypes: []BranchType{Staging},
		Now:          fixedNow,
	}
}

func pull(number int, branch string) *api.PullRequest {
	return &api.PullRequest{
		Repo:      "acme/app",
		Number:    number,
		Title:     fmt.Sprintf("PR %d", number),
		URL:       fmt.Sprintf("https://github.com/acme/app/pull/%d", number),
		Branch:    branch,
		Mergeable: true,
	}
}
