// Package config resolves harness limits from defaults, an optional project
// file and command-line overrides.
//
// Precedence, lowest first:
//
//	harness.DefaultOptions()
//	yololtest.yaml | yololtest.yml | yololtest.toml (first found in the test directory)
//	flags the operator set explicitly
//
// The merged result is validated against a CUE schema before any test runs.
package config
