package cmd

import (
	"fmt"

	"github.com/rubrical-studios/gh-deployflow/internal/api"
	"github.com/rubrical-studios/gh-deployflow/internal/deploy"
	"github.com/rubrical-studios/gh-deployflow/internal/ui"
	"github.com/spf13/cobra"
)

// deployableClient defines the API methods used by the deployable command.
type deployableClient interface {
	labelClient
	PullRequest(repo string, number int) (*api.PullRequest, error)
}

type deployableOptions struct {
	number int
	force  bool
}

func newDeployableCommand() *cobra.Command {
	opts := &deployableOptions{}

	cmd := &cobra.Command{
		Use:   "deployable <pull-request>",
		Short: "Merge a pull request into the latest deployable branch",
		Long: `Merge a mergeable pull request into the latest deployable branch and
label it with the deployable label and deployed-to-deployable. A
deployable branch is created first if none exists.

Pull requests GitHub reports as not mergeable are refused unless --force
is given.

Examples:
  gh deployflow deployable 42
  gh deployflow deployable 42 --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parsePullRequestNumber(args[0])
			if err != nil {
				return err
			}
			opts.number = number
			return runDeployable(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Merge even if GitHub reports the pull request as not mergeable")

	return cmd
}

func runDeployable(cmd *cobra.Command, opts *deployableOptions) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	return runDeployableWithDeps(cmd, opts, env.workflow(cmd).Merger, env.client, env.settings.Repo, env.cfg.GetDeployableLabel(), env.notifier)
}

// runDeployableWithDeps is the testable implementation of runDeployable
func runDeployableWithDeps(cmd *cobra.Command, opts *deployableOptions, merger deploy.PullRequestMerger, client deployableClient, repo, label string, notifier announcer) error {
	u := ui.New(cmd.OutOrStdout())

	if !opts.force {
		pr, err := client.PullRequest(repo, opts.number)
		if err != nil {
			if api.IsNotFound(err) {
				fmt.Fprintf(cmd.OutOrStdout(), "Unable to find pull request #%d. Please retry with a valid pull request ID.\n", opts.number)
				return nil
			}
			return fmt.Errorf("failed to get pull request #%d: %w", opts.number, err)
		}
		if !pr.Mergeable {
			u.Error(fmt.Sprintf("#%d is not mergeable. Fix it or rerun with --force.", opts.number))
			return nil
		}
	}

	result := merger.Perform(deploy.Deployable, opts.number)
	if !result.OK() {
		return nil
	}

	for _, l := range []string{label, deploy.Deployable.DeployedLabel()} {
		if err := client.AddLabel(repo, opts.number, l); err != nil {
			u.Warning(fmt.Sprintf("Could not label #%d %s: %v", opts.number, l, err))
			continue
		}
		u.Success(fmt.Sprintf("Labeled #%d %s", opts.number, l))
	}

	announce(cmd, notifier, fmt.Sprintf("Merged #%d into %s", opts.number, result.Target))
	return nil
}
