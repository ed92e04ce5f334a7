package binwrapper

import (
	"context"
	"errors"
	"os/exec"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

var versionPattern = regexp.MustCompile(`\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?`)

// verify executes the binary with the probe command and, when a range is
// configured, checks the version it reports against that range.
func (r *runContext) verify(ctx context.Context, probeArgs []string) error {
	binPath := r.bin.Path()
	err := r.runBinary(ctx, binPath, probeArgs)
	if err != nil {
		return &NotWorkingError{Name: r.probeFile, Err: err}
	}
	if r.bin.versionRange == "" {
		return nil
	}
	return r.checkVersion(ctx, binPath)
}

func (r *runContext) runBinary(ctx context.Context, binPath string, args []string) error {
	cmd := exec.CommandContext(ctx, binPath, args...)
	cmd.Env = r.env
	return cmd.Run()
}

// checkVersion invokes the binary with --version and compares the first
// semver token of its output against the configured range.
func (r *runContext) checkVersion(ctx context.Context, binPath string) error {
	constraint, err := semver.NewConstraint(r.bin.versionRange)
	if err != nil {
		return &VersionMismatchError{Name: r.probeFile, Range: r.bin.versionRange, Err: err}
	}
	cmd := exec.CommandContext(ctx, binPath, "--version")
	cmd.Env = r.env
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &VersionMismatchError{Name: r.probeFile, Range: r.bin.versionRange, Err: err}
	}
	token := versionPattern.FindString(string(output))
	if token == "" {
		return &VersionMismatchError{
			Name:  r.probeFile,
			Range: r.bin.versionRange,
			Err:   errors.New("no version in output"),
		}
	}
	version, err := semver.NewVersion(token)
	if err != nil {
		return &VersionMismatchError{Name: r.probeFile, Range: r.bin.versionRange, Err: err}
	}
	if !constraint.Check(version) {
		return &VersionMismatchError{Name: r.probeFile, Range: r.bin.versionRange, Version: token}
	}
	return nil
}
