// Copyright © 2025 The MON authors

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterExcludes_ByName(t *testing.T) {
	paths := []string{
		"conf/app.mon",
		"conf/generated.mon",
		"lib/types.mon",
	}
	result := filterExcludes(paths, []string{"generated.mon"})
	assert.Equal(t, []string{"conf/app.mon", "lib/types.mon"}, result)
}

func TestFilterExcludes_ByDirectory(t *testing.T) {
	paths := []string{
		"conf/app.mon",
		"build/out.mon",
		"build/sub/deep.mon",
		"lib/types.mon",
	}
	result := filterExcludes(paths, []string{"build"})
	assert.Equal(t, []string{"conf/app.mon", "lib/types.mon"}, result)
}

func TestFilterExcludes_GlobPattern(t *testing.T) {
	paths := []string{
		"conf/app.mon",
		"conf/gen_users.mon",
		"conf/gen_roles.mon",
		"lib/types.mon",
	}
	result := filterExcludes(paths, []string{"gen_*"})
	assert.Equal(t, []string{"conf/app.mon", "lib/types.mon"}, result)
}

func TestFilterExcludes_NoMatches(t *testing.T) {
	paths := []string{"conf/app.mon", "lib/types.mon"}
	assert.Equal(t, paths, filterExcludes(paths, []string{"nonexistent"}))
	assert.Equal(t, paths, filterExcludes(paths, nil))
}

func TestMatchesAny(t *testing.T) {
	assert.True(t, matchesAny("conf/app.mon", []string{"conf/*.mon"}))
	assert.False(t, matchesAny("lib/app.mon", []string{"conf/*.mon"}))
	assert.True(t, matchesAny("deep/nested/app.mon", []string{"app.mon"}))
	assert.True(t, matchesAny("project/build/out.mon", []string{"build"}))
	assert.False(t, matchesAny("project/src/out.mon", []string{"build"}))
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c.mon"}, splitPath("a/b/c.mon"))
	assert.Equal(t, []string{"a", "c.mon"}, splitPath("./a//c.mon"))
}

func TestExpandArgs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"app.mon",
		"notes.txt",
		"lib/types.mon",
		"lib/gen/out.mon",
		".git/config.mon",
		"node_modules/pkg/x.mon",
		".moncfg.mon",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
	}

	t.Run("recursive pattern", func(t *testing.T) {
		files, err := expandArgs([]string{dir + "/..."}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "app.mon"),
			filepath.Join(dir, "lib", "gen", "out.mon"),
			filepath.Join(dir, "lib", "types.mon"),
		}, files)
	})

	t.Run("directory with excludes", func(t *testing.T) {
		files, err := expandArgs([]string{filepath.Join(dir, "lib")}, []string{"gen"})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "lib", "types.mon")}, files)
	})

	t.Run("files pass through", func(t *testing.T) {
		files, err := expandArgs([]string{"missing.mon", filepath.Join(dir, "notes.txt")}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"missing.mon", filepath.Join(dir, "notes.txt")}, files)
	})
}
