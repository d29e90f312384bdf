// Package testsupport holds helpers shared by contract tests: fixture
// loading and cmp-based diffs.
package testsupport

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-structbuilder/pkg/definition"
)

// MustReadFile reads a fixture, failing the test on error.
func MustReadFile(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

// MustLoadDefinition decodes a YAML definition fixture.
func MustLoadDefinition(t *testing.T, path string) definition.File {
	t.Helper()

	doc := definition.MustNewDocument(path, MustReadFile(t, path))
	file, err := definition.DecodeYAML(doc)
	if err != nil {
		t.Fatalf("decode definition: %v", err)
	}
	return file
}

// CompareGolden diffs want against got; an empty string means equal.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}
