package cmd

import (
	"fmt"

	"github.com/rubrical-studios/gh-deployflow/internal/deploy"
	"github.com/rubrical-studios/gh-deployflow/internal/ui"
	"github.com/spf13/cobra"
)

// lifecycleRunner is satisfied by *deploy.Lifecycle
type lifecycleRunner interface {
	Perform(t deploy.BranchType, opts deploy.LifecycleOptions) (*deploy.LifecycleResult, error)
}

type newBranchOptions struct {
	branchType        deploy.BranchType
	deleteOldBranches bool
	remergeAll        bool
}

func newNewBranchCommand(t deploy.BranchType) *cobra.Command {
	opts := &newBranchOptions{branchType: t}

	cmd := &cobra.Command{
		Use:   "new-" + t.String(),
		Short: fmt.Sprintf("Create a new %s branch from the deploy branch", t),
		Long: fmt.Sprintf(`Create today's %[1]s branch (%[1]s.YYYY.MM.DD) from the deploy branch
and push it.

Pull requests labeled %[2]s can be re-merged into the new branch when
re-merging is enabled for %[1]s (remerge_branch_types in .gh-deployflow.yml).
Older %[1]s branches are then offered for deletion.

Running the command twice on the same day recreates the same branch name.`, t, t.DeployedLabel()),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNewBranch(cmd, opts)
		},
	}

	// qaready branches are short-lived and always confirm before deleting
	if t != deploy.QAReady {
		cmd.Flags().BoolVar(&opts.deleteOldBranches, "delete-old-branches", false, "Delete older branches of this type without asking")
	}
	if t == deploy.Staging {
		cmd.Flags().BoolVar(&opts.remergeAll, "remerge-all", false, "Re-merge every deployed pull request without asking")
	}

	return cmd
}

func runNewBranch(cmd *cobra.Command, opts *newBranchOptions) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	return runNewBranchWithDeps(cmd, opts, env.workflow(cmd).Lifecycle, env.notifier)
}

// runNewBranchWithDeps is the testable implementation of runNewBranch
func runNewBranchWithDeps(cmd *cobra.Command, opts *newBranchOptions, lifecycle lifecycleRunner, notifier announcer) error {
	result, err := lifecycle.Perform(opts.branchType, deploy.LifecycleOptions{
		DeleteOldBranches: opts.deleteOldBranches,
		RemergeAll:        opts.remergeAll,
	})
	if err != nil {
		return fmt.Errorf("failed to create %s branch: %w", opts.branchType, err)
	}

	u := ui.New(cmd.OutOrStdout())
	u.Success(fmt.Sprintf("Created %s", ui.Branch(result.Branch)))

	if len(result.Remerged) > 0 {
		failed := 0
		for _, r := range result.Remerged {
			if r.Outcome == deploy.OutcomeFailed {
				failed++
			}
		}
		if failed > 0 {
			u.Warning(fmt.Sprintf("Re-merged %d of %d pull requests; see messages above", len(result.Remerged)-failed, len(result.Remerged)))
		} else {
			u.Success(fmt.Sprintf("Re-merged %d pull requests", len(result.Remerged)))
		}
	}

	for _, branch := range result.Deleted {
		u.Success(fmt.Sprintf("Deleted %s", branch))
	}

	announce(cmd, notifier, fmt.Sprintf("Created %s", result.Branch))
	return nil
}
