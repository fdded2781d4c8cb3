package cmd

import (
	"fmt"

	"github.com/rubrical-studios/gh-deployflow/internal/api"
	"github.com/rubrical-studios/gh-deployflow/internal/deploy"
	pkgversion "github.com/rubrical-studios/gh-deployflow/internal/version"
	"github.com/spf13/cobra"
)

// version is set by ldflags during goreleaser builds.
// When empty (default), falls back to the source constant in internal/version.
var version = ""

func getVersion() string {
	if version != "" {
		return version
	}
	return pkgversion.Version
}

func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gh deployflow",
		Short: "Cut dated deploy branches and merge pull requests into them",
		Long: `gh deployflow automates a dated-branch deploy workflow on GitHub.

Each pipeline stage (deployable, staging, qaready) is a branch named after
the day it was cut, e.g. staging.2024.03.01. New branches start from the
deploy branch; pull requests are merged into the latest branch of a stage
and labeled so they can be re-merged when the stage is cut again.

Use 'gh deployflow <command> --help' for more information about a command.`,
		Version:      getVersion(),
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Print every git command before running it")

	cmd.AddCommand(newInitCommand())
	for _, t := range deploy.BranchTypes() {
		cmd.AddCommand(newNewBranchCommand(t))
	}
	cmd.AddCommand(newStageUpCommand())
	cmd.AddCommand(newDeployableCommand())
	cmd.AddCommand(newTagReleaseCommand())

	return cmd
}

// Execute runs the root command. Authentication failures get a hint on
// stderr since most of them surface deep inside a workflow step.
func Execute() error {
	cmd := NewRootCommand()
	err := cmd.Execute()
	if err != nil && api.IsAuthError(err) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Run 'gh auth login' to authenticate with GitHub.")
	}
	return err
}
