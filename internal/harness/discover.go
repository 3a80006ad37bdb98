package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/text/unicode/norm"
)

// Extension is the file extension of Yolol test scripts.
const Extension = ".yolol"

// Discover lists the test scripts directly inside dir, sorted by name.
// Subdirectories are not searched.
func Discover(dir string) ([]TestCase, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read test directory: %w", err)
	}

	var tests []TestCase
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != Extension {
			continue
		}
		tests = append(tests, TestCase{Path: filepath.Join(dir, entry.Name())})
	}

	sort.Slice(tests, func(i, j int) bool { return tests[i].Path < tests[j].Path })
	return tests, nil
}

// FromPaths builds test cases for explicitly requested paths, in the order
// given. Paths are not checked; missing files fail when the test runs.
func FromPaths(paths []string) []TestCase {
	tests := make([]TestCase, len(paths))
	for i, p := range paths {
		tests[i] = TestCase{Path: p}
	}
	return tests
}

// loadSource reads a script and normalises it to NFC so that string
// literals compare equal regardless of how the editor composed them.
func loadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return norm.NFC.String(string(data)), nil
}
