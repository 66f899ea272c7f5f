package callback

import (
	"context"
	"os/exec"
	"runtime"

	"github.com/campainly/campaigner/pkg/oauth"
)

// BrowserOpener opens login pages in the system browser and reports the
// window state the callback server learns about.
type BrowserOpener struct {
	Server *Server

	// Launch opens url. OpenBrowser is used when nil.
	Launch func(url string) error
}

// Open implements oauth.Opener. The size hint cannot be applied to a
// system browser and is ignored.
func (o *BrowserOpener) Open(_ context.Context, url string, _, _ int) (oauth.Window, error) {
	launch := o.Launch
	if launch == nil {
		launch = OpenBrowser
	}
	o.Server.resetWindow()
	if err := launch(url); err != nil {
		return nil, err
	}
	return o.Server, nil
}

// OpenBrowser asks the operating system to open url.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
