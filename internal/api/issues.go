package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
)

// WriteComment posts body as a comment on issue or pull request number
func (c *Client) WriteComment(repo string, number int, body string) error {
	if c.rest == nil {
		return ErrNotAuthenticated
	}
	if _, _, err := splitRepo(repo); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return fmt.Errorf("failed to encode comment: %w", err)
	}

	path := fmt.Sprintf("repos/%s/issues/%d/comments", repo, number)
	var comment Comment
	err = c.retry(func() error {
		return c.rest.Post(path, bytes.NewReader(payload), &comment)
	})
	if err != nil {
		return WrapError("write comment on", fmt.Sprintf("%s#%d", repo, number), err)
	}
	return nil
}

// AddLabel adds label to issue or pull request number
func (c *Client) AddLabel(repo string, number int, label string) error {
	if c.rest == nil {
		return ErrNotAuthenticated
	}
	if _, _, err := splitRepo(repo); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string][]string{"labels": {label}})
	if err != nil {
		return fmt.Errorf("failed to encode labels: %w", err)
	}

	path := fmt.Sprintf("repos/%s/issues/%d/labels", repo, number)
	var labels []Label
	err = c.retry(func() error {
		return c.rest.Post(path, bytes.NewReader(payload), &labels)
	})
	if err != nil {
		return WrapError("add label "+label+" to", fmt.Sprintf("%s#%d", repo, number), err)
	}
	return nil
}

// LabelExists checks if a label exists in a repository
func (c *Client) LabelExists(repo, name string) (bool, error) {
	if c.rest == nil {
		return false, ErrNotAuthenticated
	}

	path := fmt.Sprintf("repos/%s/labels/%s", repo, url.PathEscape(name))
	var label Label
	err := c.retry(func() error {
		return c.rest.Get(path, &label)
	})
	if err != nil {
		// Label not found is not an error for this function
		if IsNotFound(err) {
			return false, nil
		}
		return false, WrapError("get label", name, err)
	}
	return true, nil
}

// CreateLabel creates a new label in a repository
func (c *Client) CreateLabel(repo string, label Label) error {
	if c.rest == nil {
		return ErrNotAuthenticated
	}

	payload, err := json.Marshal(label)
	if err != nil {
		return fmt.Errorf("failed to encode label: %w", err)
	}

	path := fmt.Sprintf("repos/%s/labels", repo)
	var created Label
	err = c.retry(func() error {
		return c.rest.Post(path, bytes.NewReader(payload), &created)
	})
	if err != nil {
		return WrapError("create label", label.Name, err)
	}
	return nil
}
