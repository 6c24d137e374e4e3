// Package utils holds small filesystem helpers shared by hylangc's driver
// and anything else that needs to resolve a source path before handing it
// to the compiler.
package utils

import "path/filepath"

// GetPathInfo resolves relPath to an absolute, cleaned path and returns its
// containing directory alongside it, so callers never have to re-derive
// both from a possibly-relative command-line argument. For example,
// running hylangc from /home/me/proj with relPath "prog.hy" returns
// ("/home/me/proj/prog.hy", "/home/me/proj", nil).
func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}
	parentDir = filepath.Dir(fullPath)
	return fullPath, parentDir, nil
}
