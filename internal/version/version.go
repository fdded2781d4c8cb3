// Package version provides the gh-deployflow version constant.
package version

// Version is the current gh-deployflow version.
// Bumped as part of tagging a release; do not edit during development.
const Version = "0.4.0"
