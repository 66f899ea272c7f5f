// Package upload implements the upload command.
package upload

import (
	"github.com/spf13/cobra"

	"github.com/campainly/campaigner/internal/cmd/media"
	"github.com/campainly/campaigner/internal/cmd/output"
	"github.com/campainly/campaigner/pkg/api"
	"github.com/campainly/campaigner/pkg/errors"
	"github.com/campainly/campaigner/pkg/types"
)

// AppContext defines what the upload command needs from the app.
type AppContext interface {
	Client() (*api.Client, error)
	OutputFormat() string
}

// Result is what the command prints.
type Result struct {
	AdID      string   `json:"ad_id" yaml:"ad_id"`
	MediaURLs []string `json:"media_urls" yaml:"media_urls"`
}

// TableData implements output.Tabular.
func (r Result) TableData() output.Data {
	d := output.Data{Headers: []string{"Ad", "Type", "URL"}}
	for _, u := range r.MediaURLs {
		d.Rows = append(d.Rows, []string{r.AdID, string(types.MediaTypeFromURL(u)), u})
	}
	return d
}

// NewCommand creates the upload command.
func NewCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "upload <file>...",
		GroupID: "account",
		Short:   "Upload images and videos for an ad",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			files, err := media.Load(args...)
			if err != nil {
				return err
			}
			for _, f := range files {
				if _, ok := types.MediaTypeFromMIME(f.ContentType); !ok {
					return errors.NewValidationError("file", f.Name, "not an image or video: "+f.ContentType)
				}
			}

			client, err := app.Client()
			if err != nil {
				return err
			}
			resp, err := client.UploadAdMedia(cmd.Context(), files)
			if err != nil {
				return err
			}
			result := Result{AdID: resp.AdID.String(), MediaURLs: resp.MediaURLs}
			return output.NewFormatter(output.DetectFormat(string(format))).Format(cmd.OutOrStdout(), result)
		},
	}
}
