package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rubrical-studios/gh-deployflow/internal/deploy"
)

// mockLifecycle implements lifecycleRunner for testing
type mockLifecycle struct {
	result   *deploy.LifecycleResult
	err      error
	gotType  deploy.BranchType
	gotOpts  deploy.LifecycleOptions
	performs int
}

func (m *mockLifecycle) Perform(t deploy.BranchType, opts deploy.LifecycleOptions) (*deploy.LifecycleResult, error) {
	m.performs++
	m.gotType = t
	m.gotOpts = opts
	return m.result, m.err
}

// ============================================================================
// Command Flag Tests
// ============================================================================

func TestNewBranchCommands_Flags(t *testing.T) {
	tests := []struct {
		name           string
		deleteFlag     bool
		remergeAllFlag bool
	}{
		{"new-deployable", true, false},
		{"new-staging", true, true},
		{"new-qaready", false, false},
	}

	root := NewRootCommand()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _, err := root.Find([]string{tt.name})
			if err != nil {
				t.Fatalf("Expected %s command: %v", tt.name, err)
			}
			if got := cmd.Flags().Lookup("delete-old-branches") != nil; got != tt.deleteFlag {
				t.Errorf("--delete-old-branches present = %v, want %v", got, tt.deleteFlag)
			}
			if got := cmd.Flags().Lookup("remerge-all") != nil; got != tt.remergeAllFlag {
				t.Errorf("--remerge-all present = %v, want %v", got, tt.remergeAllFlag)
			}
		})
	}
}

func TestNewBranchCommand_RejectsArgs(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"new-staging", "extra"})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	if err := cmd.Execute(); err == nil {
		t.Error("Expected error for unexpected argument")
	}
}

// ============================================================================
// runNewBranchWithDeps Tests
// ============================================================================

func TestRunNewBranchWithDeps_PassesOptions(t *testing.T) {
	lifecycle := &mockLifecycle{result: &deploy.LifecycleResult{Branch: "staging.2024.03.01"}}
	notifier := &mockAnnouncer{enabled: true}
	cmd := newNewBranchCommand(deploy.Staging)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	opts := &newBranchOptions{branchType: deploy.Staging, deleteOldBranches: true, remergeAll: true}
	if err := runNewBranchWithDeps(cmd, opts, lifecycle, notifier); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if lifecycle.gotType != deploy.Staging || !lifecycle.gotOpts.DeleteOldBranches || !lifecycle.gotOpts.RemergeAll {
		t.Errorf("Unexpected lifecycle call %v %+v", lifecycle.gotType, lifecycle.gotOpts)
	}
	if !strings.Contains(buf.String(), "Created staging.2024.03.01") {
		t.Errorf("Expected success message, got: %s", buf.String())
	}
	if len(notifier.texts) != 1 || notifier.texts[0] != "Created staging.2024.03.01" {
		t.Errorf("Unexpected notifications %v", notifier.texts)
	}
}

func TestRunNewBranchWithDeps_ReportsDeletionsAndRemerges(t *testing.T) {
	lifecycle := &mockLifecycle{result: &deploy.LifecycleResult{
		Branch: "staging.2024.03.01",
		Remerged: []deploy.MergeResult{
			{PullRequest: 1, Outcome: deploy.OutcomeMerged},
			{PullRequest: 2, Outcome: deploy.OutcomeFailed, Err: deploy.ErrMergeFailed},
		},
		Deleted: []string{"staging.2024.02.01"},
	}}
	cmd := newNewBranchCommand(deploy.Staging)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	err := runNewBranchWithDeps(cmd, &newBranchOptions{branchType: deploy.Staging}, lifecycle, &mockAnnouncer{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Re-merged 1 of 2 pull requests") {
		t.Errorf("Expected partial re-merge warning, got: %s", output)
	}
	if !strings.Contains(output, "Deleted staging.2024.02.01") {
		t.Errorf("Expected deletion message, got: %s", output)
	}
}

func TestRunNewBranchWithDeps_LifecycleError(t *testing.T) {
	lifecycle := &mockLifecycle{err: errors.New("git push failed")}
	notifier := &mockAnnouncer{enabled: true}
	cmd := newNewBranchCommand(deploy.Deployable)

	err := runNewBranchWithDeps(cmd, &newBranchOptions{branchType: deploy.Deployable}, lifecycle, notifier)

	if err == nil || !strings.Contains(err.Error(), "failed to create deployable branch") {
		t.Errorf("Expected wrapped error, got %v", err)
	}
	if len(notifier.texts) != 0 {
		t.Errorf("Expected no notification on failure, got %v", notifier.texts)
	}
}
