// Package open creates files for secrets.
package open

import (
	"os"

	"github.com/hectane/go-acl"
)

// NewSafeFile creates a new empty file which is accessible only by the current user.
//
// If the file already exists, it will be truncated.
func NewSafeFile(filepath string) (*os.File, error) {
	// On Windows, the mode given to OpenFile is not applied as acl.
	// So the permission is applied after creation, then the file is truncated.
	f, err := os.OpenFile(filepath, os.O_TRUNC|os.O_CREATE|os.O_RDWR, os.FileMode(0600))
	if err != nil {
		return nil, err
	}

	for _, step := range []func() error{
		func() error { return acl.Chmod(filepath, os.FileMode(0600)) },
		func() error { return f.Truncate(0) },
		func() error { _, err := f.Seek(0, 0); return err },
	} {
		if err := step(); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}
