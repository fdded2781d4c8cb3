package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rubrical-studios/gh-deployflow/internal/api"
	"github.com/rubrical-studios/gh-deployflow/internal/config"
	"github.com/rubrical-studios/gh-deployflow/internal/deploy"
	"github.com/rubrical-studios/gh-deployflow/internal/git"
	"github.com/rubrical-studios/gh-deployflow/internal/notify"
	"github.com/rubrical-studios/gh-deployflow/internal/ui"
	"github.com/spf13/cobra"
)

// environment is everything a workflow command needs, resolved once from
// the project config, the user config and the current repository.
type environment struct {
	cfg      *config.Config
	user     *config.UserConfig
	settings deploy.Settings
	git      *git.Git
	client   *api.Client
	notifier *notify.Notifier
}

// announcer posts a workflow announcement
type announcer interface {
	Enabled() bool
	Notify(ctx context.Context, text string) error
}

func loadEnvironment(cmd *cobra.Command) (*environment, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	cfg, err := config.LoadOrDefault(cwd)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	user, err := config.LoadUserConfig()
	if err != nil {
		return nil, err
	}

	repo, err := resolveRepo(cfg)
	if err != nil {
		return nil, err
	}

	remergeTypes, err := deploy.ParseBranchTypes(cfg.GetRemergeBranchTypes())
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	exec := git.NewExecExecutor(cwd)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose || user.Verbose {
		exec.Trace = cmd.ErrOrStderr()
	}

	client := api.NewClient()
	if !client.Authenticated() {
		return nil, api.ErrNotAuthenticated
	}

	return &environment{
		cfg:  cfg,
		user: user,
		settings: deploy.Settings{
			Repo:              repo,
			DeployBranch:      cfg.GetDeployBranch(),
			UserNotifications: cfg.UserNotifications,
			RemergeTypes:      remergeTypes,
		},
		git:      git.New(exec),
		client:   client,
		notifier: notify.New(user.Webhooks),
	}, nil
}

// workflow wires the deploy components against this environment
func (e *environment) workflow(cmd *cobra.Command) *deploy.Workflow {
	return deploy.NewWorkflow(e.git, e.client, ui.NewPrompter(), e.settings, cmd.OutOrStdout())
}

// resolveRepo prefers the configured repository and falls back to the
// repository of the current git remote.
func resolveRepo(cfg *config.Config) (string, error) {
	if cfg.GithubRepo != "" {
		return cfg.GithubRepo, nil
	}
	repo, err := detectRepository()
	if err != nil {
		return "", fmt.Errorf("could not determine the GitHub repository: %w\nSet github_repo in %s or run 'gh deployflow init'", err, config.ConfigFileName)
	}
	return repo, nil
}

// announce posts text to the configured webhooks; failures only warn
func announce(cmd *cobra.Command, n announcer, text string) {
	if n == nil || !n.Enabled() {
		return
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := n.Notify(ctx, text); err != nil {
		ui.New(cmd.ErrOrStderr()).Warning(fmt.Sprintf("Could not send notification: %v", err))
	}
}

// parsePullRequestNumber parses a positional pull request ID such as "42" or "#42"
func parsePullRequestNumber(arg string) (int, error) {
	number, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
	if err != nil || number <= 0 {
		return 0, fmt.Errorf("invalid pull request number: %s", arg)
	}
	return number, nil
}
