// Package player opens resolved embed pages outside the terminal. Commands
// are started with explicit argument slices; nothing goes through a shell.
package player

import (
	"fmt"
	"net/url"
)

// Launcher opens an embed URL.
type Launcher interface {
	// Open hands url to the launcher and returns once it has started.
	Open(url, title string) error

	// Name returns the launcher name.
	Name() string

	// Available checks if the launcher can run on this system.
	Available() bool
}

// New creates a launcher by name. "browser" uses the system browser; any
// other name is run as a command with the URL as its only argument.
func New(name string) Launcher {
	switch name {
	case "", "browser":
		return &Browser{}
	default:
		return &Command{name: name}
	}
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("refusing to open %q: not an https URL", raw)
	}
	return nil
}
