// Package binwrapper locates, downloads and verifies platform-specific
// binaries on behalf of a host tool. A BinWrapper describes where a
// binary lives and where its platform variants can be fetched from. Run
// searches the destination directory and optionally the PATH, falls back
// to downloading and extracting a matching source, and finally confirms
// the binary actually runs.
package binwrapper

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/exp/slices"
)

// BinWrapper is the configuration for one binary. Setters return the
// receiver so configuration can be chained.
type BinWrapper struct {
	sources         []Source
	dest            string
	binPath         string
	versionRange    string
	stripComponents int
	globalSearch    bool
	env             []string
	progress        io.Writer
}

// New returns a BinWrapper with default options: strip-components 1 and
// no global search.
func New() *BinWrapper {
	return &BinWrapper{stripComponents: 1}
}

// Src adds a source URL. osArch optionally tags the entry with an os and
// an arch class, in that order.
func (b *BinWrapper) Src(url string, osArch ...string) *BinWrapper {
	src := Source{URL: url}
	if len(osArch) > 0 {
		src.OS = osArch[0]
	}
	if len(osArch) > 1 {
		src.Arch = osArch[1]
	}
	return b.addSource(src)
}

func (b *BinWrapper) addSource(src Source) *BinWrapper {
	b.sources = append(b.sources, src)
	return b
}

// Sources returns a copy of the configured source entries in insertion
// order.
func (b *BinWrapper) Sources() []Source {
	return slices.Clone(b.sources)
}

// Dest sets the directory where the binary must ultimately reside.
func (b *BinWrapper) Dest(dir string) *BinWrapper {
	b.dest = dir
	return b
}

// DestDir returns the configured destination directory.
func (b *BinWrapper) DestDir() string {
	return b.dest
}

// Use sets the path of the executable relative to the destination
// directory.
func (b *BinWrapper) Use(rel string) *BinWrapper {
	b.binPath = rel
	return b
}

// Bin returns the configured relative binary path.
func (b *BinWrapper) Bin() string {
	return b.binPath
}

// Version sets a semver range the resolved binary must satisfy.
func (b *BinWrapper) Version(rng string) *BinWrapper {
	b.versionRange = rng
	return b
}

// VersionRange returns the configured version range.
func (b *BinWrapper) VersionRange() string {
	return b.versionRange
}

// StripComponents sets how many leading path segments are removed from
// archive entries before they are written to the destination. The
// default of 1 assumes a single top-level wrapper directory.
func (b *BinWrapper) StripComponents(n int) *BinWrapper {
	b.stripComponents = n
	return b
}

// GlobalSearch controls whether the PATH directories are searched for an
// existing copy before downloading.
func (b *BinWrapper) GlobalSearch(enabled bool) *BinWrapper {
	b.globalSearch = enabled
	return b
}

// Env sets the environment used for PATH searches and probe execution.
// Defaults to os.Environ().
func (b *BinWrapper) Env(env []string) *BinWrapper {
	b.env = env
	return b
}

// Progress sets a best-effort sink that downloaded bytes are written to.
// It has no effect on control flow.
func (b *BinWrapper) Progress(w io.Writer) *BinWrapper {
	b.progress = w
	return b
}

// Path returns the computed absolute binary path.
func (b *BinWrapper) Path() string {
	return filepath.Join(b.dest, filepath.FromSlash(b.binPath))
}

// runContext holds state scoped to a single Run so the descriptor itself
// stays reusable.
type runContext struct {
	bin       *BinWrapper
	env       []string
	pathDirs  []string
	probeDir  string
	probeFile string
	resolved  string
}

func (b *BinWrapper) newRun() *runContext {
	env := b.env
	if env == nil {
		env = os.Environ()
	}
	binPath := b.Path()
	return &runContext{
		bin:       b,
		env:       env,
		pathDirs:  filepath.SplitList(envValue(env, "PATH")),
		probeDir:  filepath.Dir(binPath),
		probeFile: filepath.Base(binPath),
	}
}

// Run executes the full pipeline: search existing locations, link a
// global find into the destination, download and extract when nothing
// was found, then verify the result with the probe command. probeArgs
// defaults to ["--version"]. The first failing step aborts the run.
func (b *BinWrapper) Run(ctx context.Context, probeArgs ...string) error {
	if len(probeArgs) == 0 {
		probeArgs = []string{"--version"}
	}
	run := b.newRun()
	found, err := run.resolveLocation()
	if err != nil {
		return err
	}
	if found != "" {
		err = run.linkGlobal(found)
	} else {
		err = run.acquire(ctx)
	}
	if err != nil {
		return err
	}
	return run.verify(ctx, probeArgs)
}
