package ghrelease

import (
	"fmt"
	"testing"

	binwrapper "github.com/s12chung/bin-wrapper"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	for _, td := range []struct {
		name string
		os   string
		arch string
	}{
		{"tool_1.2.3_darwin_amd64.tar.gz", "darwin", "x64"},
		{"tool-1.2.3-macos-x86_64.zip", "darwin", "x64"},
		{"tool-linux-aarch64.tgz", "linux", "arm"},
		{"tool_linux_armv7.tar.gz", "linux", "arm"},
		{"tool-win64.zip", "windows", "x64"},
		{"tool_windows_386.zip", "windows", "x86"},
		{"tool-freebsd-amd64.tar.gz", "freebsd", "x64"},
		{"checksums.txt", "", ""},
		{"tool-1.2.3.tar.gz", "", ""},
	} {
		t.Run(td.name, func(t *testing.T) {
			asset := Classify(td.name, "https://example.com/"+td.name)
			require.Equal(t, td.os, asset.OS)
			require.Equal(t, td.arch, asset.Arch)
		})
	}
}

func TestSources(t *testing.T) {
	t.Run("one source per platform, sorted", func(t *testing.T) {
		assets := []Asset{
			Classify("tool_linux_amd64.tar.gz", "https://example.com/linux"),
			Classify("tool_darwin_amd64.tar.gz", "https://example.com/darwin"),
			Classify("tool_darwin_arm64.tar.gz", "https://example.com/darwin-arm"),
			Classify("checksums.txt", "https://example.com/checksums"),
		}
		sources, err := Sources(assets, nil)
		require.NoError(t, err)
		require.Equal(t, []binwrapper.Source{
			{URL: "https://example.com/darwin-arm", OS: "darwin", Arch: "arm"},
			{URL: "https://example.com/darwin", OS: "darwin", Arch: "x64"},
			{URL: "https://example.com/linux", OS: "linux", Arch: "x64"},
		}, sources)
	})

	t.Run("checksum assets are skipped", func(t *testing.T) {
		assets := []Asset{
			Classify("tool_linux_amd64.tar.gz", "https://example.com/linux"),
			Classify("tool_linux_amd64.tar.gz.sha256", "https://example.com/linux-sum"),
		}
		sources, err := Sources(assets, nil)
		require.NoError(t, err)
		require.Len(t, sources, 1)
		require.Equal(t, "https://example.com/linux", sources[0].URL)
	})

	t.Run("selector resolves ties", func(t *testing.T) {
		assets := []Asset{
			Classify("tool_linux_amd64.tar.gz", "https://example.com/gnu"),
			Classify("tool_linux_musl_amd64.tar.gz", "https://example.com/musl"),
		}
		called := false
		sources, err := Sources(assets, func(candidates []Asset) (Asset, error) {
			called = true
			require.Len(t, candidates, 2)
			return candidates[1], nil
		})
		require.NoError(t, err)
		require.True(t, called)
		require.Equal(t, "https://example.com/musl", sources[0].URL)
	})

	t.Run("selector error propagates", func(t *testing.T) {
		assets := []Asset{
			Classify("tool_linux_amd64.tar.gz", "https://example.com/gnu"),
			Classify("tool_linux_musl_amd64.tar.gz", "https://example.com/musl"),
		}
		_, err := Sources(assets, func([]Asset) (Asset, error) {
			return Asset{}, fmt.Errorf("boom")
		})
		require.EqualError(t, err, "boom")
	})

	t.Run("nothing recognizable", func(t *testing.T) {
		_, err := Sources([]Asset{Classify("source.tar.gz", "u")}, nil)
		require.Error(t, err)
	})
}
