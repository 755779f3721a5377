package util

import (
	"os"
	"path/filepath"
)

// FindGitRoot walks up from start looking for a .git entry.
// Returns start if no repository is found.
func FindGitRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	origin := dir

	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return origin, nil
		}
		dir = parent
	}
}

// RepoLabel names the repository containing dir after its root folder.
func RepoLabel(dir string) string {
	root, err := FindGitRoot(dir)
	if err != nil {
		return filepath.Base(dir)
	}
	return filepath.Base(root)
}
