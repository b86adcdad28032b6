package path

import (
	"os"
	"path/filepath"
	"strings"
)

// Resolve returns the absolute representation of a path, expanding a leading "~"
// to the user's home directory.
func Resolve(pathstring string) (string, error) {
	if pathstring == "~" || strings.HasPrefix(pathstring, "~"+string(filepath.Separator)) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		pathstring = filepath.Join(home, strings.TrimPrefix(pathstring, "~"))
	}
	return filepath.Abs(pathstring)
}
