package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cli/go-gh/v2/pkg/repository"
	"github.com/rubrical-studios/gh-deployflow/internal/api"
	"github.com/rubrical-studios/gh-deployflow/internal/config"
	"github.com/rubrical-studios/gh-deployflow/internal/defaults"
	"github.com/rubrical-studios/gh-deployflow/internal/ui"
	"github.com/spf13/cobra"
)

// initClient defines the API methods used by init.
type initClient interface {
	LabelExists(repo, name string) (bool, error)
	CreateLabel(repo string, label api.Label) error
}

// initPrompter defines the questions init may ask.
type initPrompter interface {
	AskBoolean(question string) (bool, error)
	AskInput(question, placeholder string) (string, error)
	AskSecret(question string) (string, error)
}

// initOptions holds the command-line options for init
type initOptions struct {
	nonInteractive  bool
	repo            string
	deployBranch    string
	deployableLabel string
	webhook         string
	yes             bool
	detectRepo      func() (string, error)
}

func newInitCommand() *cobra.Command {
	opts := &initOptions{detectRepo: detectRepository}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize gh-deployflow configuration for the current project",
		Long: `Initialize gh-deployflow by creating a .gh-deployflow.yml file.

This command will:
- Auto-detect the current repository from git remote
- Write .gh-deployflow.yml with the default deploy workflow settings
- Create the workflow labels (deployable, deployed-to-*) on GitHub
- Optionally store a chat webhook URL in your user configuration

Non-interactive mode (--non-interactive) disables all prompts. Use this for
CI/CD pipelines and automation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false, "Disable prompts")
	cmd.Flags().StringVar(&opts.repo, "repo", "", "Repository (owner/repo format)")
	cmd.Flags().StringVar(&opts.deployBranch, "deploy-branch", "", "Branch dated branches are cut from (default from built-in defaults)")
	cmd.Flags().StringVar(&opts.deployableLabel, "deployable-label", "", "Label marking pull requests ready for the deployable branch")
	cmd.Flags().StringVar(&opts.webhook, "webhook", "", "Chat webhook URL for workflow notifications")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Auto-confirm prompts")

	return cmd
}

func runInit(cmd *cobra.Command, opts *initOptions) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	client := api.NewClient()
	if !client.Authenticated() {
		return api.ErrNotAuthenticated
	}

	return runInitWithDeps(cmd, opts, cwd, client, ui.NewPrompter())
}

// runInitWithDeps is the testable implementation of runInit
func runInitWithDeps(cmd *cobra.Command, opts *initOptions, dir string, client initClient, prompter initPrompter) error {
	u := ui.New(cmd.OutOrStdout())
	u.Header("gh-deployflow init", "Configure the dated-branch deploy workflow")
	fmt.Fprintln(cmd.OutOrStdout())

	interactive := !opts.nonInteractive

	configPath := filepath.Join(dir, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !opts.yes {
		if !interactive {
			return fmt.Errorf("%s already exists; use --yes to overwrite", config.ConfigFileName)
		}
		u.Warning(fmt.Sprintf("Configuration file %s already exists", config.ConfigFileName))
		overwrite, err := prompter.AskBoolean("Overwrite?")
		if err != nil {
			return err
		}
		if !overwrite {
			u.Info("Aborted")
			return nil
		}
	}

	repo, err := initRepository(u, opts, prompter)
	if err != nil {
		return err
	}

	defs, err := defaults.Load()
	if err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}

	cfg := &config.Config{
		GithubRepo:         repo,
		DeployBranch:       defs.Config.DeployBranch,
		RemergeBranchTypes: defs.Config.RemergeBranchTypes,
		DeployableLabel:    defs.Config.DeployableLabel,
		Changelog:          defs.Config.Changelog,
	}
	if opts.deployBranch != "" {
		cfg.DeployBranch = opts.deployBranch
	}
	if opts.deployableLabel != "" {
		cfg.DeployableLabel = opts.deployableLabel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	u.Step(1, 3, "Writing configuration")
	if err := cfg.Save(configPath); err != nil {
		return err
	}
	u.Success(fmt.Sprintf("Wrote %s", config.ConfigFileName))

	u.Step(2, 3, "Ensuring workflow labels")
	ensureLabels(u, client, repo, defs.WorkflowLabels(cfg.DeployableLabel))

	u.Step(3, 3, "Notifications")
	if err := initWebhook(u, opts, prompter); err != nil {
		return err
	}

	u.Say(fmt.Sprintf("%s is ready. Cut today's branch with: gh deployflow new-deployable", repo))
	return nil
}

func initRepository(u *ui.UI, opts *initOptions, prompter initPrompter) (string, error) {
	if opts.repo != "" {
		return opts.repo, nil
	}

	detected, err := opts.detectRepo()
	if err == nil && detected != "" {
		u.Info(fmt.Sprintf("Detected repository: %s", detected))
		return detected, nil
	}

	if opts.nonInteractive {
		return "", fmt.Errorf("could not detect repository; pass --repo owner/repo")
	}
	u.Warning("Could not detect repository from git remote")
	repo, err := prompter.AskInput("Repository", "owner/repo")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(repo), nil
}

// ensureLabels creates missing workflow labels. Failures warn and continue.
func ensureLabels(u *ui.UI, client initClient, repo string, labels []defaults.LabelDef) {
	for _, def := range labels {
		exists, err := client.LabelExists(repo, def.Name)
		if err != nil {
			u.Warning(fmt.Sprintf("Could not check label %s: %v", def.Name, err))
			continue
		}
		if exists {
			u.Success(fmt.Sprintf("Label %s exists", def.Name))
			continue
		}
		label := api.Label{Name: def.Name, Color: def.Color, Description: def.Description}
		if err := client.CreateLabel(repo, label); err != nil {
			u.Warning(fmt.Sprintf("Could not create label %s: %v", def.Name, err))
			continue
		}
		u.Success(fmt.Sprintf("Created label %s", def.Name))
	}
}

func initWebhook(u *ui.UI, opts *initOptions, prompter initPrompter) error {
	url := opts.webhook
	if url == "" && !opts.nonInteractive && !opts.yes {
		wanted, err := prompter.AskBoolean("Post workflow notifications to a chat webhook?")
		if err != nil {
			return err
		}
		if wanted {
			url, err = prompter.AskSecret("Webhook URL")
			if err != nil {
				return err
			}
		}
	}
	url = strings.TrimSpace(url)
	if url == "" {
		u.Info("No webhook configured")
		return nil
	}

	user, err := config.LoadUserConfig()
	if err != nil {
		return err
	}
	if !user.AddWebhook(url) {
		u.Info("Webhook already configured")
		return nil
	}
	if err := config.SaveUserConfig(user); err != nil {
		return err
	}
	u.Success("Saved webhook to your user configuration")
	return nil
}

// detectRepository returns owner/repo for the current git remote.
func detectRepository() (string, error) {
	current, err := repository.Current()
	if err != nil {
		return "", err
	}
	return current.Owner + "/" + current.Name, nil
}
