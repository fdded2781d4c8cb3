//go:build e2e

package e2e

import (
	"os"
	"path/filepath"
	"testing"
)

// testRepo is only used to label output; the tests never reach the GitHub API
const testRepo = "rubrical-studios/gh-deployflow-e2e-test"

// testConfig disables re-merging so no command needs the GitHub API
const testConfig = `deploy_branch: master
remerge_branch_types: []
changelog: CHANGELOG.markdown
`

// TestConfig holds the paths for a test repository
type TestConfig struct {
	// Dir is the working clone the binary runs in
	Dir string
	// Origin is the bare repository the clone pushes to
	Origin string
	// ConfigHome isolates the user configuration
	ConfigHome string
}

// setupTestConfig creates a bare origin with one commit on master and a clone
// of it holding .gh-deployflow.yml. Everything lives under t.TempDir().
func setupTestConfig(t *testing.T) *TestConfig {
	t.Helper()

	root := t.TempDir()
	cfg := &TestConfig{
		Dir:        filepath.Join(root, "clone"),
		Origin:     filepath.Join(root, "origin.git"),
		ConfigHome: filepath.Join(root, "config"),
	}

	git(t, root, "init", "--bare", "--initial-branch=master", cfg.Origin)
	git(t, root, "clone", cfg.Origin, cfg.Dir)
	git(t, cfg.Dir, "config", "user.email", "e2e@example.com")
	git(t, cfg.Dir, "config", "user.name", "E2E")
	git(t, cfg.Dir, "symbolic-ref", "HEAD", "refs/heads/master")

	configPath := filepath.Join(cfg.Dir, ".gh-deployflow.yml")
	if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	git(t, cfg.Dir, "add", ".gh-deployflow.yml")
	git(t, cfg.Dir, "commit", "-m", "Add deploy configuration")
	git(t, cfg.Dir, "push", "--set-upstream", "origin", "master")

	return cfg
}

// seedBranch publishes name on origin from master, as an earlier run would have.
func seedBranch(t *testing.T, cfg *TestConfig, name string) {
	t.Helper()

	git(t, cfg.Dir, "push", "origin", "master:refs/heads/"+name)
}
