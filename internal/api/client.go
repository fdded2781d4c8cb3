package api

import (
	"fmt"
	"io"
	"strings"

	"github.com/cli/go-gh/v2/pkg/api"
)

// DefaultMaxRetries is how many times a rate-limited request is retried
const DefaultMaxRetries = 3

// GraphQLClient interface allows mocking the GitHub GraphQL client for testing
type GraphQLClient interface {
	Query(name string, query interface{}, variables map[string]interface{}) error
}

// RESTClient interface allows mocking the GitHub REST client for testing
type RESTClient interface {
	Get(path string, response interface{}) error
	Post(path string, body io.Reader, response interface{}) error
}

// Client wraps the GitHub GraphQL and REST clients with the pull request,
// search, comment and label operations the deploy workflow uses.
type Client struct {
	gql  GraphQLClient
	rest RESTClient
	opts ClientOptions
}

// ClientOptions configures the API client
type ClientOptions struct {
	// Host is the GitHub hostname (default: github.com)
	Host string

	// MaxRetries bounds retries of rate-limited requests
	MaxRetries int
}

// NewClient creates a new API client with default options
func NewClient() *Client {
	return NewClientWithOptions(ClientOptions{MaxRetries: DefaultMaxRetries})
}

// NewClientWithOptions creates a new API client with custom options
func NewClientWithOptions(opts ClientOptions) *Client {
	apiOpts := api.ClientOptions{}
	if opts.Host != "" {
		apiOpts.Host = opts.Host
	}

	c := &Client{opts: opts}

	// Without gh authentication the clients cannot be built; methods then
	// return ErrNotAuthenticated instead of panicking.
	if gql, err := api.NewGraphQLClient(apiOpts); err == nil {
		c.gql = gql
	}
	if rest, err := api.NewRESTClient(apiOpts); err == nil {
		c.rest = rest
	}
	return c
}

// NewClientWithTransports creates a Client over custom clients (for testing)
func NewClientWithTransports(gql GraphQLClient, rest RESTClient) *Client {
	return &Client{gql: gql, rest: rest}
}

// Authenticated reports whether both GitHub transports could be built from
// the gh credentials.
func (c *Client) Authenticated() bool {
	return c.gql != nil && c.rest != nil
}

func (c *Client) retry(fn func() error) error {
	return WithRetry(fn, c.opts.MaxRetries)
}

// splitRepo splits "owner/name" into its parts
func splitRepo(repo string) (string, string, error) {
	parts := strings.SplitN(repo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository format %q, expected owner/repo", repo)
	}
	return parts[0], parts[1], nil
}
