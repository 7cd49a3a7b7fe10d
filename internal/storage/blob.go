package storage

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
)

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// UploadKey names an archived upload: uploads/<yyyy>/<mm>/<uuid>-<name>.
func UploadKey(filename string, now time.Time) string {
	name := unsafeName.ReplaceAllString(filepath.Base(filename), "_")
	if name == "" || name == "." || name == "_" {
		name = "upload"
	}
	return fmt.Sprintf("uploads/%04d/%02d/%s-%s", now.Year(), int(now.Month()), uuid.NewString(), name)
}
