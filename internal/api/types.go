package api

// MergeableState is GitHub's mergeable enum for pull requests
type MergeableState string

const (
	MergeableStateMergeable   MergeableState = "MERGEABLE"
	MergeableStateConflicting MergeableState = "CONFLICTING"
	MergeableStateUnknown     MergeableState = "UNKNOWN"
)

// PullRequest represents a GitHub pull request
type PullRequest struct {
	Repo      string // "owner/repo"
	Number    int
	Title     string
	URL       string
	Branch    string // head ref name
	Mergeable bool
}

// SearchResult is the response of an issue search
type SearchResult struct {
	TotalCount int          `json:"total_count"`
	Items      []SearchItem `json:"items"`
}

// SearchItem is an issue or pull request returned by search
type SearchItem struct {
	Number  int     `json:"number"`
	Title   string  `json:"title"`
	HTMLURL string  `json:"html_url"`
	Labels  []Label `json:"labels"`
}

// Label represents a GitHub label
type Label struct {
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

// Comment represents an issue comment
type Comment struct {
	ID      int64  `json:"id"`
	Body    string `json:"body"`
	HTMLURL string `json:"html_url"`
}
