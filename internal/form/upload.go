package form

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/gabriel-vasile/mimetype"
)

// MaxUploadBytes is the largest photo the page accepts (5 MiB).
const MaxUploadBytes int64 = 5 * 1024 * 1024

// FileRef describes the file currently held by the photo input.
type FileRef struct {
	Path      string
	Name      string
	Size      int64
	MediaType string
}

var (
	ErrNoFile          = &ValidationError{Field: "file", Rule: "required", Message: "Please select a file to upload."}
	ErrFileTooLarge    = &ValidationError{Field: "file", Rule: "max", Message: "File size must not exceed 5MB."}
	ErrUnsupportedType = &ValidationError{Field: "file", Rule: "ext", Message: "Only image files (jpg, jpeg, png, gif) are allowed."}
)

var imageName = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif)$`)

// Inspect stats the file at path and detects its media type from content.
func Inspect(path string) (FileRef, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileRef{}, fmt.Errorf("unable to read %s: %w", path, err)
	}
	if info.IsDir() {
		return FileRef{}, fmt.Errorf("%s is a directory", path)
	}
	mediaType := "application/octet-stream"
	if info.Size() > 0 {
		mt, err := mimetype.DetectFile(path)
		if err != nil {
			return FileRef{}, fmt.Errorf("unable to detect media type of %s: %w", path, err)
		}
		mediaType = mt.String()
	}
	return FileRef{
		Path:      path,
		Name:      filepath.Base(path),
		Size:      info.Size(),
		MediaType: mediaType,
	}, nil
}

// ValidateUpload checks, in order, that a file is selected, that it fits the
// size limit and that its name carries an accepted image extension.
func ValidateUpload(file *FileRef) (FileRef, error) {
	if file == nil {
		return FileRef{}, ErrNoFile
	}
	if file.Size > MaxUploadBytes {
		return FileRef{}, ErrFileTooLarge
	}
	if !imageName.MatchString(file.Name) {
		return FileRef{}, ErrUnsupportedType
	}
	return *file, nil
}
