// Package browser opens URLs in the user's default browser.
package browser

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Opener opens a URL in a new browser tab or window.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// ExecOpener shells out to the platform's URL opener.
type ExecOpener struct{}

var _ Opener = (*ExecOpener)(nil)

// Open launches the default browser for the given URL. The command is
// started and not waited on; the browser owns its own lifetime.
func (ExecOpener) Open(ctx context.Context, url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("browser: open %s: %w", url, err)
	}
	return nil
}

// Recorder is an Opener for tests that records every opened URL.
type Recorder struct {
	URLs []string
}

var _ Opener = (*Recorder)(nil)

func (r *Recorder) Open(_ context.Context, url string) error {
	r.URLs = append(r.URLs, url)
	return nil
}
