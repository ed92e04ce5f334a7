package binwrapper

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvValue(t *testing.T) {
	env := []string{"PATH=/first", "HOME=/home/x", "PATH=/second"}
	// duplicate keys resolve like exec.Cmd's Env: last one wins
	require.Equal(t, "/second", envValue(env, "PATH"))
	require.Equal(t, "/home/x", envValue(env, "HOME"))
	require.Empty(t, envValue(env, "MISSING"))
}

func TestLookPath(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, filepath.Join(dir, "foo"), scriptEcho210)

	found, err := lookPath("foo", []string{t.TempDir(), dir})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "foo"), found)

	_, err = lookPath("bar", []string{dir})
	require.Error(t, err)
}
