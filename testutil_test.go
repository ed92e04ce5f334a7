package binwrapper

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveBytes starts an HTTP server returning content at urlPath and
// counting requests.
func serveBytes(t *testing.T, content []byte, urlPath string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	mux := http.NewServeMux()
	mux.HandleFunc(urlPath, func(w http.ResponseWriter, req *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, err := w.Write(content)
		assert.NoError(t, err)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, &hits
}

type tarEntry struct {
	name string
	body string
}

// buildTarGz returns a gzipped tarball with the given regular files, all
// mode 0755.
func buildTarGz(t *testing.T, entries []tarEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	gzWriter := gzip.NewWriter(&buf)
	tarWriter := tar.NewWriter(gzWriter)
	for _, entry := range entries {
		err := tarWriter.WriteHeader(&tar.Header{
			Typeflag: tar.TypeReg,
			Name:     entry.name,
			Mode:     0o755,
			Size:     int64(len(entry.body)),
		})
		require.NoError(t, err)
		_, err = tarWriter.Write([]byte(entry.body))
		require.NoError(t, err)
	}
	require.NoError(t, tarWriter.Close())
	require.NoError(t, gzWriter.Close())
	return buf.Bytes()
}

const (
	scriptEcho190  = "#!/bin/sh\necho 1.9.0\n"
	scriptEcho210  = "#!/bin/sh\necho 2.1.0\n"
	scriptExit1    = "#!/bin/sh\nexit 1\n"
	scriptNoDigits = "#!/bin/sh\necho no version here\n"
	// exits 0 only when invoked with --version
	scriptWantsVersionFlag = "#!/bin/sh\n[ \"$1\" = \"--version\" ] || exit 1\necho 3.0.0\n"
)

func writeScript(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
}

// testEnv builds an environment whose PATH is exactly pathDirs.
func testEnv(pathDirs ...string) []string {
	return []string{"PATH=" + strings.Join(pathDirs, string(os.PathListSeparator))}
}
