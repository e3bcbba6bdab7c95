// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("# doc\n"), 0o644))
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"b.md", "a.md", "notes.txt", "sub/c.md", "sub/deep/d.md"} {
		touch(t, filepath.Join(dir, f))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dir.md"), 0o755))
	j := func(parts ...string) string { return filepath.Join(append([]string{dir}, parts...)...) }

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{"literal", []string{j("a.md")}, []string{j("a.md")}},
		{"literal missing kept", []string{j("gone.md")}, []string{j("gone.md")}},
		{"star sorted files only", []string{j("*.md")}, []string{j("a.md"), j("b.md")}},
		{"recursive", []string{j("**", "*.md")}, []string{j("a.md"), j("b.md"), j("sub", "c.md"), j("sub", "deep", "d.md")}},
		{"dedup keeps first", []string{j("b.md"), j("*.md")}, []string{j("b.md"), j("a.md")}},
		{"braces", []string{j("{a,notes}.*")}, []string{j("a.md"), j("notes.txt")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.patterns)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandNoMatch(t *testing.T) {
	_, err := Expand([]string{filepath.Join(t.TempDir(), "*.md")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files match")
}

func TestExpandInvalidPattern(t *testing.T) {
	_, err := Expand([]string{"docs/[a-.md"})
	require.Error(t, err)
}
