package deploy

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// BranchType identifies a stage of the deploy pipeline. Each type owns a
// family of dated branches named "{type}.{YYYY.MM.DD}".
type BranchType int

const (
	Deployable BranchType = iota + 1
	Staging
	QAReady
)

// DateLayout is the date portion of a dated branch name
const DateLayout = "2006.01.02"

// BranchTypes returns every known branch type in pipeline order
func BranchTypes() []BranchType {
	return []BranchType{Deployable, Staging, QAReady}
}

func (t BranchType) String() string {
	switch t {
	case Deployable:
		return "deployable"
	case Staging:
		return "staging"
	case QAReady:
		return "qaready"
	default:
		return fmt.Sprintf("BranchType(%d)", int(t))
	}
}

// Valid reports whether t is one of the known branch types
func (t BranchType) Valid() bool {
	switch t {
	case Deployable, Staging, QAReady:
		return true
	default:
		return false
	}
}

// Prefix is the branch-name prefix shared by every branch of this type
func (t BranchType) Prefix() string {
	return t.String() + "."
}

// DeployedLabel is the pull request label recording a merge into this type
func (t BranchType) DeployedLabel() string {
	return "deployed-to-" + t.String()
}

// ParseBranchType converts a name such as "staging" into a BranchType
func ParseBranchType(name string) (BranchType, error) {
	for _, t := range BranchTypes() {
		if strings.EqualFold(name, t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidBranchType, name)
}

// ParseBranchTypes converts a list of names, failing on the first unknown one
func ParseBranchTypes(names []string) ([]BranchType, error) {
	types := make([]BranchType, 0, len(names))
	for _, name := range names {
		t, err := ParseBranchType(name)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

// BranchName renders the dated branch name for t on date
func BranchName(t BranchType, date time.Time) (string, error) {
	if !t.Valid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidBranchType, t)
	}
	return t.Prefix() + date.Format(DateLayout), nil
}

// ExtraBranches returns every branch in all except created, keeping order.
// These are the branches superseded by created.
func ExtraBranches(all []string, created string) []string {
	var extra []string
	for _, name := range all {
		if name != created {
			extra = append(extra, name)
		}
	}
	return extra
}

// LatestBranchFor returns the most recent remote branch of type t. Dated
// names sort chronologically, so the latest is the last after sorting.
func LatestBranchFor(lister BranchLister, t BranchType) (string, error) {
	if !t.Valid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidBranchType, t)
	}

	branches, err := lister.BranchesFor(t.Prefix())
	if err != nil {
		return "", err
	}
	if len(branches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoBranchOfType, t)
	}

	sorted := append([]string(nil), branches...)
	sort.Strings(sorted)
	return sorted[len(sorted)-1], nil
}
