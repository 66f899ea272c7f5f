package api

import (
	"context"
	"net/http"

	"github.com/campainly/campaigner/internal/transport"
	"github.com/campainly/campaigner/pkg/constants"
	"github.com/campainly/campaigner/pkg/errors"
)

// File is one raw media file staged for upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// AdUploadResponse is returned by the media upload.
type AdUploadResponse struct {
	AdID      ID       `json:"ad_id"`
	MediaURLs []string `json:"media_urls"`
}

// UploadAdMedia uploads files as multipart "media" parts.
func (c *Client) UploadAdMedia(ctx context.Context, files []File) (*AdUploadResponse, error) {
	if len(files) == 0 {
		return nil, errors.NewValidationError("media", 0, "no files provided for upload")
	}

	parts := make([]transport.FilePart, len(files))
	for i, f := range files {
		parts[i] = transport.FilePart{Name: f.Name, ContentType: f.ContentType, Data: f.Data}
	}
	body, contentType, err := transport.Multipart("media", parts)
	if err != nil {
		return nil, err
	}

	var out AdUploadResponse
	err = c.t.Do(ctx, transport.Request{
		Method:      http.MethodPost,
		Path:        constants.PathAds,
		Raw:         body,
		ContentType: contentType,
		RequireAuth: true,
		Operation:   "media upload",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
