package helper

import (
	"os"
)

// EnsureDirectoryExists creates dirPath (and parents) when it does not exist yet.
func EnsureDirectoryExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		if err := os.MkdirAll(dirPath, 0755); err != nil {
			return err
		}
	}
	return nil
}
