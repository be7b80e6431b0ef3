package overlay

import (
	"testing"

	"github.com/Jamar-Mitchell/screen-blur-focus/pkg/desktop"
)

func TestColorByName(t *testing.T) {
	tests := []struct {
		name    string
		want    desktop.RGB
		wantErr bool
	}{
		{"Black", desktop.RGB{}, false},
		{"black", desktop.RGB{}, false},
		{"BLUE", desktop.RGB{R: 0, G: 0, B: 50}, false},
		{"Dark Gray", desktop.RGB{R: 30, G: 30, B: 30}, false},
		{"White", desktop.RGB{R: 255, G: 255, B: 255}, false},
		{"Chartreuse", desktop.RGB{}, true},
		{"", desktop.RGB{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ColorByName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ColorByName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ColorByName(%q) = %+v, want %+v", tt.name, got, tt.want)
			}
		})
	}
}

func TestColorNamesIncludesDefault(t *testing.T) {
	names := ColorNames()
	if len(names) == 0 {
		t.Fatal("ColorNames() is empty")
	}

	found := false
	for _, n := range names {
		if n == DefaultColorName {
			found = true
		}
	}
	if !found {
		t.Errorf("ColorNames() = %v, missing default %q", names, DefaultColorName)
	}
}
