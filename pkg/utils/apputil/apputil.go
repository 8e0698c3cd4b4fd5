// Package apputil provides small filesystem helpers used at startup.
package apputil

import (
	"os"
	"path/filepath"
)

// FileExists reports whether a file is present at a path.
func FileExists(filePath string) bool {
	_, e := os.Stat(filePath)
	return e == nil
}

// EnsureDir creates the directory containing a file path if it does not
// exist.
func EnsureDir(fileName string) (err error) {
	dirName := filepath.Dir(fileName)
	if _, err = os.Stat(dirName); os.IsNotExist(err) {
		return os.MkdirAll(dirName, os.ModePerm)
	}
	return
}
