package file

import (
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/scylladb/go-set/strset"
)

// imageMIMETypes lists the image formats the extraction backend accepts.
var imageMIMETypes = strset.New(
	"image/png",
	"image/jpeg",
	"image/webp",
	"image/tiff",
	"image/bmp",
)

// ExpandPath expands a path to avoid `~`.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "getting user home dir")
	}
	return filepath.Join(home, path[2:]), nil
}

// CreateDirectoryIfNotExist creates a directory if it doesn't already exist.
func CreateDirectoryIfNotExist(directory string) error {
	ok, err := DirectoryExists(directory)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if err := os.MkdirAll(directory, 0755); err != nil {
		return errors.Wrap(err, "creating directory")
	}
	return nil
}

// DirectoryExists returns true if the specified directory exists.
func DirectoryExists(directory string) (bool, error) {
	info, err := os.Stat(directory)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "checking directory existence")
	}
	return info.IsDir(), nil
}

// Exists returns true if the specified file exists.
func Exists(filePath string) (bool, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "checking file existence")
	}
	return !info.IsDir(), nil
}

// Size returns the file's size in bytes.
func Size(filePath string) (int64, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return 0, errors.Wrap(err, "reading file size")
	}
	return info.Size(), nil
}

// DetectMIMEType returns the MIME type of a file based on its extension.
// Unknown extensions map to application/octet-stream.
func DetectMIMEType(path string) string {
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		return "application/octet-stream"
	}
	// Strip optional parameters such as "; charset=utf-8".
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}

// IsImage returns true if the MIME type is an accepted image format.
func IsImage(mimeType string) bool {
	return imageMIMETypes.Has(mimeType)
}
