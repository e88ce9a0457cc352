package content

import (
	"errors"
	"fmt"
)

// NotFoundError reports that no item matched the queried name in a
// category after every lookup strategy was exhausted.
type NotFoundError struct {
	Category string
	Name     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no match for %q in category %q", e.Name, e.Category)
}

// DirectoryMissingError reports that a category's backing directory does
// not exist. This is a deployment or configuration defect, distinct from
// an item simply not being present.
type DirectoryMissingError struct {
	Category string
	Dir      string
}

func (e *DirectoryMissingError) Error() string {
	return fmt.Sprintf("directory for category %q does not exist: %s", e.Category, e.Dir)
}

// ReadFailureError reports that a file was located but could not be read,
// typically permissions or a file removed between discovery and read. It
// must never be conflated with NotFoundError: the item was there.
type ReadFailureError struct {
	Path string
	Err  error
}

func (e *ReadFailureError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadFailureError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsDirectoryMissing reports whether err is a DirectoryMissingError.
func IsDirectoryMissing(err error) bool {
	var dm *DirectoryMissingError
	return errors.As(err, &dm)
}

// IsReadFailure reports whether err is a ReadFailureError.
func IsReadFailure(err error) bool {
	var rf *ReadFailureError
	return errors.As(err, &rf)
}
