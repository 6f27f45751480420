package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/set"
)

// ValidateExtraFiles checks the files that are written next to the source
// file in dir. Names must be relative paths inside of dir and unique, and an
// existing file may only be overwritten if it has the same length.
func ValidateExtraFiles(dir string, files []ExtraFile) error {
	names := set.New[string]()
	for _, file := range files {
		name := filepath.Clean(filepath.FromSlash(file.Name))
		if file.Name == "" || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
			return fmt.Errorf("file '%s' is not a relative path", file.Name)
		}
		if name == ".." || strings.HasPrefix(name, ".."+string(filepath.Separator)) ||
			strings.Contains(filepath.ToSlash(file.Name), "../") {
			return fmt.Errorf("file '%s' refers to a parent directory", file.Name)
		}

		key := strings.ToLower(name)
		if names.Contains(key) {
			return fmt.Errorf("file '%s' is used more than once", file.Name)
		}
		names.Add(key)

		stat, err := os.Stat(filepath.Join(dir, name))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			continue
		case err != nil:
			return fmt.Errorf("checking file '%s': %w", file.Name, err)
		case stat.IsDir():
			return fmt.Errorf("file '%s' is a directory", file.Name)
		case stat.Size() != int64(len(file.Data)):
			return fmt.Errorf("file '%s' exists with a different length (%d instead of %d bytes)",
				file.Name, stat.Size(), len(file.Data))
		}
	}
	return nil
}

// WriteExtraFiles writes the files into dir. They have to be validated with
// ValidateExtraFiles first.
func WriteExtraFiles(dir string, files []ExtraFile) error {
	for _, file := range files {
		path := filepath.Join(dir, filepath.FromSlash(file.Name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("creating directory for '%s': %w", file.Name, err)
		}
		if err := os.WriteFile(path, file.Data, 0644); err != nil {
			return fmt.Errorf("writing file '%s': %w", file.Name, err)
		}
	}
	return nil
}
