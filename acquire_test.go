package binwrapper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunContext_acquire(t *testing.T) {
	ctx := context.Background()

	t.Run("extracts an archive with the default strip", func(t *testing.T) {
		archive := buildTarGz(t, []tarEntry{
			{name: "wrapper/bin/foo", body: scriptEcho210},
			{name: "wrapper/README.md", body: "readme"},
		})
		ts, _ := serveBytes(t, archive, "/foo.tar.gz")
		dest := t.TempDir()
		b := New().Dest(dest).Use("bin/foo").Src(ts.URL + "/foo.tar.gz")

		require.NoError(t, b.newRun().acquire(ctx))

		content, err := os.ReadFile(b.Path())
		require.NoError(t, err)
		require.Equal(t, scriptEcho210, string(content))
		info, err := os.Stat(b.Path())
		require.NoError(t, err)
		require.NotZero(t, info.Mode().Perm()&0o111)
		require.FileExists(t, filepath.Join(dest, "README.md"))
	})

	t.Run("strip components", func(t *testing.T) {
		archive := buildTarGz(t, []tarEntry{
			{name: "a/b/foo", body: scriptEcho210},
		})
		ts, _ := serveBytes(t, archive, "/foo.tar.gz")
		dest := t.TempDir()
		b := New().Dest(dest).Use("foo").StripComponents(2).Src(ts.URL + "/foo.tar.gz")

		require.NoError(t, b.newRun().acquire(ctx))
		require.FileExists(t, filepath.Join(dest, "foo"))
	})

	t.Run("entries consumed by strip are skipped", func(t *testing.T) {
		archive := buildTarGz(t, []tarEntry{
			{name: "toplevel", body: "dropped"},
			{name: "wrapper/foo", body: scriptEcho210},
		})
		ts, _ := serveBytes(t, archive, "/foo.tar.gz")
		dest := t.TempDir()
		b := New().Dest(dest).Use("foo").Src(ts.URL + "/foo.tar.gz")

		require.NoError(t, b.newRun().acquire(ctx))
		require.FileExists(t, filepath.Join(dest, "foo"))
		require.NoFileExists(t, filepath.Join(dest, "toplevel"))
	})

	t.Run("plain files are written under their base name", func(t *testing.T) {
		ts, _ := serveBytes(t, []byte(scriptEcho210), "/foo")
		dest := t.TempDir()
		b := New().Dest(dest).Use("foo").Src(ts.URL + "/foo")

		require.NoError(t, b.newRun().acquire(ctx))

		info, err := os.Stat(filepath.Join(dest, "foo"))
		require.NoError(t, err)
		require.NotZero(t, info.Mode().Perm()&0o111)
	})

	t.Run("all matched sources land", func(t *testing.T) {
		mainArchive := buildTarGz(t, []tarEntry{{name: "wrapper/foo", body: scriptEcho210}})
		libArchive := buildTarGz(t, []tarEntry{{name: "wrapper/libfoo.so", body: "lib"}})
		mux := http.NewServeMux()
		mux.HandleFunc("/foo.tar.gz", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(mainArchive)
		})
		mux.HandleFunc("/libfoo.tar.gz", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(libArchive)
		})
		ts := httptest.NewServer(mux)
		t.Cleanup(ts.Close)

		dest := t.TempDir()
		b := New().Dest(dest).Use("foo").
			Src(ts.URL + "/foo.tar.gz").
			Src(ts.URL + "/libfoo.tar.gz")

		require.NoError(t, b.newRun().acquire(ctx))
		require.FileExists(t, filepath.Join(dest, "foo"))
		require.FileExists(t, filepath.Join(dest, "libfoo.so"))
	})

	t.Run("no matching source", func(t *testing.T) {
		b := New().Dest(t.TempDir()).Use("foo").Src("https://example.com/foo.tar.gz", "someos")

		err := b.newRun().acquire(ctx)
		var acquisitionErr *AcquisitionError
		require.ErrorAs(t, err, &acquisitionErr)
	})

	t.Run("download failure", func(t *testing.T) {
		mux := http.NewServeMux()
		ts := httptest.NewServer(mux)
		t.Cleanup(ts.Close)
		b := New().Dest(t.TempDir()).Use("foo").Src(ts.URL + "/missing.tar.gz")

		err := b.newRun().acquire(ctx)
		var acquisitionErr *AcquisitionError
		require.ErrorAs(t, err, &acquisitionErr)
	})

	t.Run("one failing source fails the whole step", func(t *testing.T) {
		archive := buildTarGz(t, []tarEntry{{name: "wrapper/foo", body: scriptEcho210}})
		mux := http.NewServeMux()
		mux.HandleFunc("/foo.tar.gz", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(archive)
		})
		mux.HandleFunc("/missing.tar.gz", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "not found", http.StatusNotFound)
		})
		ts := httptest.NewServer(mux)
		t.Cleanup(ts.Close)

		b := New().Dest(t.TempDir()).Use("foo").
			Src(ts.URL + "/foo.tar.gz").
			Src(ts.URL + "/missing.tar.gz")

		err := b.newRun().acquire(ctx)
		require.Error(t, err)
		var acquisitionErr *AcquisitionError
		require.True(t, errors.As(err, &acquisitionErr))
	})
}

func TestStrippedName(t *testing.T) {
	require.Equal(t, "bin/foo", strippedName("wrapper/bin/foo", 1))
	require.Equal(t, "foo", strippedName("a/b/foo", 2))
	require.Equal(t, "", strippedName("toplevel", 1))
	require.Equal(t, "wrapper/foo", strippedName("/wrapper/foo", 0))
}
