package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// allowedImageExts mirrors the service's accepted upload types.
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ValidateImagePath checks an upload candidate before any request is
// made: the file must exist, be a regular file, and carry a JPG or PNG
// extension.
func ValidateImagePath(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !allowedImageExts[ext] {
		return fmt.Errorf("unsupported image type %q (supports JPG, PNG)", ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
