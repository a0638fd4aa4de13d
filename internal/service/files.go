package service

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// deleteImageFiles removes stored image files after their owning row no
// longer references them. Rows store the public URL path ("/uploads/x.jpg"),
// which maps onto the same path relative to the working directory. Deletion
// is best effort: a file that is already gone is fine, anything else is
// logged and never surfaced, since an orphan file must not fail an otherwise
// successful row mutation.
func deleteImageFiles(paths ...string) {
	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}

		relative := strings.TrimPrefix(trimmed, "/")
		absolute := relative
		if cwd, err := os.Getwd(); err == nil {
			absolute = filepath.Join(cwd, relative)
		}

		if err := os.Remove(absolute); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("[FILES] failed to delete image %s: %v", trimmed, err)
		}
	}
}

func derefOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
