// Package media reads local image and video files for upload.
package media

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/campainly/campaigner/pkg/api"
	"github.com/campainly/campaigner/pkg/errors"
)

// Load reads each path into an upload file. The content type comes from
// the extension, or from the file's first bytes when the extension is
// unknown.
func Load(paths ...string) ([]api.File, error) {
	files := make([]api.File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, errors.WrapIO("read", p, err)
		}
		files = append(files, api.File{
			Name:        filepath.Base(p),
			ContentType: contentType(p, data),
			Data:        data,
		})
	}
	return files, nil
}

func contentType(path string, data []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
			return mediaType
		}
		return ct
	}
	ct, _, _ := strings.Cut(http.DetectContentType(data), ";")
	return ct
}
