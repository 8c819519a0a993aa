package player

import (
	"fmt"
	"io"

	"github.com/pkg/browser"
)

// Browser opens URLs in the system's default browser.
type Browser struct{}

func (b *Browser) Name() string { return "browser" }

func (b *Browser) Available() bool { return true }

// Open launches the browser. Its output is discarded so it cannot draw over
// the TUI.
func (b *Browser) Open(rawURL, title string) error {
	if err := checkURL(rawURL); err != nil {
		return err
	}
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	if err := browser.OpenURL(rawURL); err != nil {
		return fmt.Errorf("opening browser: %w", err)
	}
	return nil
}
