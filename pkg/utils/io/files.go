package io

import (
	"os"
	"path/filepath"
)

// CreateAll creates (or truncates) a file, with its parent directories if missing.
//
// fmod is applied to the file, and dmod to directories newly created.
// Directories which have existed are not changed.
func CreateAll(name string, fmod os.FileMode, dmod os.FileMode) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(name), dmod); err != nil {
		return nil, err
	}
	return os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, fmod)
}
