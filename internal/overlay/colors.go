package overlay

import (
	"fmt"
	"strings"

	"github.com/Jamar-Mitchell/screen-blur-focus/pkg/desktop"
)

// DefaultColorName is the palette entry used when nothing is persisted.
const DefaultColorName = "Black"

// palette matches the color menu of the original tray application.
var palette = []struct {
	Name  string
	Color desktop.RGB
}{
	{"Black", desktop.RGB{R: 0, G: 0, B: 0}},
	{"White", desktop.RGB{R: 255, G: 255, B: 255}},
	{"Blue", desktop.RGB{R: 0, G: 0, B: 50}},
	{"Dark Gray", desktop.RGB{R: 30, G: 30, B: 30}},
}

// ColorByName resolves a palette color, case-insensitively.
func ColorByName(name string) (desktop.RGB, error) {
	for _, entry := range palette {
		if strings.EqualFold(entry.Name, name) {
			return entry.Color, nil
		}
	}
	return desktop.RGB{}, fmt.Errorf("unknown color %q", name)
}

// ColorNames returns the palette names in menu order.
func ColorNames() []string {
	names := make([]string, len(palette))
	for i, entry := range palette {
		names[i] = entry.Name
	}
	return names
}
