package player

import (
	"fmt"
	"os/exec"
)

// Command runs a user-chosen program (a specific browser, or a player that
// understands embed pages) with the URL as argument.
type Command struct {
	name string
}

func (c *Command) Name() string { return c.name }

func (c *Command) Available() bool {
	_, err := exec.LookPath(c.name)
	return err == nil
}

// Open starts the command without waiting for it to exit.
func (c *Command) Open(rawURL, title string) error {
	if err := checkURL(rawURL); err != nil {
		return err
	}
	path, err := exec.LookPath(c.name)
	if err != nil {
		return fmt.Errorf("launcher %s not found: %w", c.name, err)
	}

	cmd := exec.Command(path, rawURL)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("running %s: %w", c.name, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
