package utils

import (
	"errors"
	"os"
	"path/filepath"
)

var ErrSearchFile = errors.New("could not search file")

// SearchFilePathtoUpward looks for fileName in root and its ancestors.
//
// # Returns
//
// - *string: the path of the nearest file found.
//
// - error: ErrSearchFile when no ancestors have the file.
func SearchFilePathtoUpward(root string, fileName string) (*string, error) {
	for dir := root; ; {
		candidate := filepath.Join(dir, fileName)
		if stat, err := os.Stat(candidate); err == nil && !stat.IsDir() {
			return &candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, ErrSearchFile
		}
		dir = parent
	}
}
