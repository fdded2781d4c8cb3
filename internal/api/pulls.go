package api

import (
	"fmt"
	"net/url"

	graphql "github.com/cli/shurcooL-graphql"
)

// PullRequest fetches a pull request with its head branch and mergeability
func (c *Client) PullRequest(repo string, number int) (*PullRequest, error) {
	if c.gql == nil {
		return nil, ErrNotAuthenticated
	}

	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	var query struct {
		Repository struct {
			PullRequest *struct {
				Number      int
				Title       string
				URL         string
				HeadRefName string
				Mergeable   MergeableState
			} `graphql:"pullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]interface{}{
		"owner":  graphql.String(owner),
		"name":   graphql.String(name),
		"number": graphql.Int(number),
	}

	err = c.retry(func() error {
		return c.gql.Query("PullRequest", &query, variables)
	})
	resource := fmt.Sprintf("%s#%d", repo, number)
	if err != nil {
		return nil, WrapError("get pull request", resource, err)
	}

	pr := query.Repository.PullRequest
	if pr == nil {
		return nil, &APIError{Operation: "get pull request", Resource: resource, Err: ErrNotFound}
	}

	return &PullRequest{
		Repo:      repo,
		Number:    pr.Number,
		Title:     pr.Title,
		URL:       pr.URL,
		Branch:    pr.HeadRefName,
		Mergeable: pr.Mergeable == MergeableStateMergeable,
	}, nil
}

// searchPageSize is the largest page the search API serves
const searchPageSize = 100

// searchResultLimit is the most results the search API returns for one query
const searchResultLimit = 1000

// SearchIssues runs a GitHub issue search (e.g. "repo:o/r type:pr is:open label:x"),
// following result pages until every match has been collected.
func (c *Client) SearchIssues(query string) (*SearchResult, error) {
	if c.rest == nil {
		return nil, ErrNotAuthenticated
	}

	var all SearchResult
	for page := 1; ; page++ {
		path := fmt.Sprintf("search/issues?per_page=%d&page=%d&q=%s", searchPageSize, page, url.QueryEscape(query))

		var result SearchResult
		err := c.retry(func() error {
			return c.rest.Get(path, &result)
		})
		if err != nil {
			return nil, WrapError("search issues", query, err)
		}

		all.TotalCount = result.TotalCount
		all.Items = append(all.Items, result.Items...)
		if len(result.Items) < searchPageSize || len(all.Items) >= min(all.TotalCount, searchResultLimit) {
			break
		}
	}
	return &all, nil
}

// OpenPullRequestsWithLabel returns open pull requests in repo carrying label
func (c *Client) OpenPullRequestsWithLabel(repo, label string) ([]SearchItem, error) {
	result, err := c.SearchIssues(fmt.Sprintf("repo:%s type:pr is:open label:%s", repo, label))
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}
