package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestPaletteFor(t *testing.T) {
	tests := []struct {
		theme string
		want  lipgloss.Color
	}{
		{"", DarkPalette.Main},
		{"dark", DarkPalette.Main},
		{"light", LightPalette.Main},
	}
	for _, tt := range tests {
		p, err := PaletteFor(tt.theme)
		if err != nil {
			t.Errorf("PaletteFor(%q): %v", tt.theme, err)
			continue
		}
		if p.Main != tt.want {
			t.Errorf("PaletteFor(%q).Main = %v, want %v", tt.theme, p.Main, tt.want)
		}
	}

	if _, err := PaletteFor("neon"); err == nil {
		t.Error("unknown theme should fail")
	}
}

func TestApplyPaletteRebuildsStyles(t *testing.T) {
	t.Cleanup(func() { ApplyPalette(DarkPalette) })

	ApplyPalette(LightPalette)
	if got := IndicatorConnected.GetForeground(); got != LightPalette.Success {
		t.Errorf("IndicatorConnected foreground = %v, want %v", got, LightPalette.Success)
	}
	if got := Header.GetBackground(); got != LightPalette.Primary {
		t.Errorf("Header background = %v, want %v", got, LightPalette.Primary)
	}
	if colorMain != LightPalette.Main {
		t.Errorf("series color = %v, want %v", colorMain, LightPalette.Main)
	}

	ApplyPalette(DarkPalette)
	if got := ErrorStyle.GetForeground(); got != DarkPalette.Error {
		t.Errorf("ErrorStyle foreground = %v, want %v", got, DarkPalette.Error)
	}
}
