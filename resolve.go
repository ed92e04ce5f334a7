package binwrapper

import (
	"os"
	"path/filepath"
)

// candidates lists the paths to check, local destination first, then one
// per PATH directory when global search is enabled.
func (r *runContext) candidates() []string {
	result := []string{filepath.Join(r.probeDir, r.probeFile)}
	if !r.bin.globalSearch {
		return result
	}
	for _, dir := range r.pathDirs {
		if dir == "" {
			continue
		}
		result = append(result, filepath.Join(dir, r.probeFile))
	}
	return result
}

// resolveLocation returns the first existing candidate, or "" when
// nothing exists. Candidates that are the globally installed instance of
// the same command are passed over in favor of any other existing
// candidate, but remain usable as a fallback when they are all there is.
func (r *runContext) resolveLocation() (string, error) {
	var self string
	if r.bin.globalSearch {
		// absence on PATH is no conflict, not a failure
		if p, err := lookPath(r.probeFile, r.pathDirs); err == nil {
			self = p
		}
	}
	var fallback string
	for _, candidate := range r.candidates() {
		exists, err := fileExists(candidate)
		if err != nil {
			return "", &FilesystemError{Op: "stat", Path: candidate, Err: err}
		}
		if !exists {
			continue
		}
		if self != "" && samePath(candidate, self) {
			if fallback == "" {
				fallback = candidate
			}
			continue
		}
		r.resolved = candidate
		return candidate, nil
	}
	r.resolved = fallback
	return fallback, nil
}

// linkGlobal symlinks a genuinely global find into the destination so
// the computed local path stays the canonical entry point. Finds that
// are already local are left alone.
func (r *runContext) linkGlobal(found string) error {
	if !r.bin.globalSearch {
		return nil
	}
	local := r.bin.Path()
	if samePath(found, local) {
		return nil
	}
	foundDir := filepath.Clean(filepath.Dir(found))
	global := false
	for _, dir := range r.pathDirs {
		if dir != "" && filepath.Clean(dir) == foundDir {
			global = true
			break
		}
	}
	if !global {
		return nil
	}
	err := os.MkdirAll(filepath.Dir(local), 0o755)
	if err != nil {
		return &FilesystemError{Op: "mkdir", Path: filepath.Dir(local), Err: err}
	}
	err = os.RemoveAll(local)
	if err != nil {
		return &FilesystemError{Op: "remove", Path: local, Err: err}
	}
	err = os.Symlink(found, local)
	if err != nil {
		return &FilesystemError{Op: "symlink", Path: local, Err: err}
	}
	return nil
}
