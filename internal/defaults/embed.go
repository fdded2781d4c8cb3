// Package defaults provides embedded default configuration for gh-deployflow.
package defaults

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yml
var defaultsYAML []byte

// Defaults holds the parsed default configuration.
type Defaults struct {
	Config ConfigDef  `yaml:"config"`
	Labels []LabelDef `yaml:"labels"`
}

// ConfigDef is the starting point for a new .gh-deployflow.yml.
type ConfigDef struct {
	DeployBranch       string   `yaml:"deploy_branch"`
	RemergeBranchTypes []string `yaml:"remerge_branch_types"`
	DeployableLabel    string   `yaml:"deployable_label"`
	Changelog          string   `yaml:"changelog"`
}

// LabelDef represents a label definition.
type LabelDef struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Color       string `yaml:"color"`
}

// Load parses and returns the embedded defaults.
func Load() (*Defaults, error) {
	var d Defaults
	if err := yaml.Unmarshal(defaultsYAML, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// WorkflowLabels returns the labels init ensures exist. When deployable is
// set and differs from the default deployable label, that label is created
// under the configured name instead.
func (d *Defaults) WorkflowLabels(deployable string) []LabelDef {
	labels := make([]LabelDef, len(d.Labels))
	copy(labels, d.Labels)
	if deployable == "" || deployable == d.Config.DeployableLabel {
		return labels
	}
	for i := range labels {
		if labels[i].Name == d.Config.DeployableLabel {
			labels[i].Name = deployable
		}
	}
	return labels
}
