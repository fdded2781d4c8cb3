package cmd

import (
	"fmt"

	"github.com/rubrical-studios/gh-deployflow/internal/deploy"
	"github.com/rubrical-studios/gh-deployflow/internal/ui"
	"github.com/spf13/cobra"
)

// labelClient adds labels to pull requests
type labelClient interface {
	AddLabel(repo string, number int, label string) error
}

type stageUpOptions struct {
	number int
}

func newStageUpCommand() *cobra.Command {
	opts := &stageUpOptions{}

	cmd := &cobra.Command{
		Use:   "stage-up <pull-request>",
		Short: "Merge a pull request into the latest staging branch",
		Long: `Merge a pull request into the latest staging branch, push it and comment
on the pull request. A staging branch is created first if none exists.

The pull request is labeled deployed-to-staging so it is offered for
re-merging the next time a staging branch is cut.

Nothing happens while the working tree has uncommitted changes.

Examples:
  gh deployflow stage-up 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := parsePullRequestNumber(args[0])
			if err != nil {
				return err
			}
			opts.number = number
			return runStageUp(cmd, opts)
		},
	}

	return cmd
}

func runStageUp(cmd *cobra.Command, opts *stageUpOptions) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	return runStageUpWithDeps(cmd, opts, env.workflow(cmd).Merger, env.client, env.settings.Repo, env.notifier)
}

// runStageUpWithDeps is the testable implementation of runStageUp
func runStageUpWithDeps(cmd *cobra.Command, opts *stageUpOptions, merger deploy.PullRequestMerger, client labelClient, repo string, notifier announcer) error {
	result := merger.Perform(deploy.Staging, opts.number)
	if !result.OK() {
		// Failures were already explained by the merger
		return nil
	}

	label := deploy.Staging.DeployedLabel()
	u := ui.New(cmd.OutOrStdout())
	if err := client.AddLabel(repo, opts.number, label); err != nil {
		u.Warning(fmt.Sprintf("Could not label #%d %s: %v", opts.number, label, err))
	} else {
		u.Success(fmt.Sprintf("Labeled #%d %s", opts.number, label))
	}

	announce(cmd, notifier, fmt.Sprintf("Merged #%d into %s", opts.number, result.Target))
	return nil
}
