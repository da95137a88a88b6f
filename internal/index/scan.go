package index

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ImageExtensions are the card image formats the compositor can decode
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff"}

// File is one discovered card image
type File struct {
	Folder string // Base name of the enclosing folder
	Base   string // File name without extension
	Path   string
}

// Scan walks root and returns every card image in traversal order.
// Files with other extensions are returned separately so callers can warn.
func Scan(root string) (files []File, skipped []string, err error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("source folder not found: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		ext := filepath.Ext(d.Name())
		if !isImage(ext) {
			skipped = append(skipped, path)
			return nil
		}

		files = append(files, File{
			Folder: filepath.Base(filepath.Dir(path)),
			Base:   strings.TrimSuffix(d.Name(), ext),
			Path:   path,
		})
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("error scanning %s: %w", root, err)
	}

	return files, skipped, nil
}

func isImage(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range ImageExtensions {
		if e == ext {
			return true
		}
	}
	return false
}
