package x11

import (
	"fmt"
	"os/exec"
)

// Notifier shows desktop notifications through notify-send when available.
type Notifier struct{}

func (n *Notifier) Notify(title, message string) error {
	if _, err := exec.LookPath("notify-send"); err != nil {
		return fmt.Errorf("notify-send not available: %w", err)
	}

	cmd := exec.Command("notify-send", "--app-name=screenblur", "--expire-time=2000", title, message)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("notify-send failed: %w", err)
	}
	return nil
}
