package binwrapper

import "fmt"

// FilesystemError wraps a failed existence check or symlink creation.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// AcquisitionError wraps a download or extraction failure. A failure of
// any matched source fails the whole acquisition.
type AcquisitionError struct {
	Err error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquisition failed: %v", e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}

// NotWorkingError means the probe executed but the binary did not behave
// as expected.
type NotWorkingError struct {
	Name string
	Err  error
}

func (e *NotWorkingError) Error() string {
	return fmt.Sprintf("the %q binary doesn't seem to work correctly: %v", e.Name, e.Err)
}

func (e *NotWorkingError) Unwrap() error {
	return e.Err
}

// VersionMismatchError means the binary works but its version does not
// satisfy the configured range, or could not be determined.
type VersionMismatchError struct {
	Name    string
	Range   string
	Version string
	Err     error
}

func (e *VersionMismatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("couldn't determine the version of %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("%q version %s doesn't satisfy the range %s", e.Name, e.Version, e.Range)
}

func (e *VersionMismatchError) Unwrap() error {
	return e.Err
}
