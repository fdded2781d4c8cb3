//go:build e2e

package e2e

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func today() string {
	return time.Now().Format("2006.01.02")
}

func TestNewDeployable_CreatesTodaysBranch(t *testing.T) {
	cfg := setupTestConfig(t)

	result := runDeployflow(t, cfg, "new-deployable")

	assertExitCode(t, result, 0)
	branch := "deployable." + today()
	assertContains(t, result.Stdout, "Created "+branch)

	if !slices.Contains(remoteBranches(t, cfg), branch) {
		t.Errorf("Expected %s on origin, got %v", branch, remoteBranches(t, cfg))
	}
	if current := git(t, cfg.Dir, "rev-parse", "--abbrev-ref", "HEAD"); current != branch {
		t.Errorf("Expected %s checked out, got %s", branch, current)
	}
}

func TestNewDeployable_DeletesOlderBranches(t *testing.T) {
	cfg := setupTestConfig(t)
	seedBranch(t, cfg, "deployable.2020.01.01")
	seedBranch(t, cfg, "deployable.2020.02.01")
	seedBranch(t, cfg, "staging.2020.01.01")

	result := runDeployflow(t, cfg, "new-deployable", "--delete-old-branches")

	assertExitCode(t, result, 0)
	assertContains(t, result.Stdout, "Deleted deployable.2020.01.01")
	assertContains(t, result.Stdout, "Deleted deployable.2020.02.01")

	branches := remoteBranches(t, cfg)
	want := []string{"deployable." + today(), "master", "staging.2020.01.01"}
	slices.Sort(branches)
	if !slices.Equal(branches, want) {
		t.Errorf("Expected origin branches %v, got %v", want, branches)
	}
}

func TestNewStaging_SameDayRerunRepublishes(t *testing.T) {
	cfg := setupTestConfig(t)

	first := runDeployflow(t, cfg, "new-staging")
	assertExitCode(t, first, 0)

	// Advance master so the rerun has something new to pick up
	git(t, cfg.Dir, "checkout", "master")
	if err := os.WriteFile(filepath.Join(cfg.Dir, "feature.txt"), []byte("feature\n"), 0644); err != nil {
		t.Fatal(err)
	}
	git(t, cfg.Dir, "add", "feature.txt")
	git(t, cfg.Dir, "commit", "-m", "Add feature")
	git(t, cfg.Dir, "push", "origin", "master")

	second := runDeployflow(t, cfg, "new-staging")
	assertExitCode(t, second, 0)
	assertNotContains(t, second.Stdout, "older staging branches")

	branch := "staging." + today()
	if git(t, cfg.Origin, "rev-parse", branch) != git(t, cfg.Origin, "rev-parse", "master") {
		t.Errorf("Expected %s to be reset to the new master", branch)
	}
}

func TestNewBranch_DirtyTreeRefused(t *testing.T) {
	cfg := setupTestConfig(t)
	if err := os.WriteFile(filepath.Join(cfg.Dir, "scratch.txt"), []byte("wip\n"), 0644); err != nil {
		t.Fatal(err)
	}

	result := runDeployflow(t, cfg, "new-qaready")

	if result.ExitCode == 0 {
		t.Fatal("Expected non-zero exit with uncommitted changes")
	}
	assertContains(t, result.Stderr, "uncommitted changes")
	if slices.Contains(remoteBranches(t, cfg), "qaready."+today()) {
		t.Error("Expected no branch to be published")
	}
}

func TestTagRelease_TagsDeployBranch(t *testing.T) {
	cfg := setupTestConfig(t)

	result := runDeployflow(t, cfg, "tag-release", "--note", "First release")

	assertExitCode(t, result, 0)
	assertContains(t, result.Stdout, "Tagged ")

	tags := git(t, cfg.Origin, "tag", "--list")
	if !strings.HasPrefix(tags, today()+".") {
		t.Errorf("Expected a tag for today on origin, got %q", tags)
	}

	changelog, err := os.ReadFile(filepath.Join(cfg.Dir, "CHANGELOG.markdown"))
	if err != nil {
		t.Fatalf("Expected changelog: %v", err)
	}
	assertContains(t, string(changelog), "* First release")
	assertContains(t, git(t, cfg.Origin, "log", "-1", "--format=%s", "master"), "to CHANGELOG.markdown")
}

func TestTagRelease_RefusesOtherBranch(t *testing.T) {
	cfg := setupTestConfig(t)
	git(t, cfg.Dir, "checkout", "-b", "feature")

	result := runDeployflow(t, cfg, "tag-release")

	if result.ExitCode == 0 {
		t.Fatal("Expected non-zero exit off the deploy branch")
	}
	assertContains(t, result.Stderr, "not the deploy branch")
}
