package hud

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"hitscan-arena/internal/weapon"
)

type fakeDisplay struct {
	ammo      int
	maxAmmo   int
	reloading bool
	progress  float64
}

func (f fakeDisplay) GetCurrentAmmo() int        { return f.ammo }
func (f fakeDisplay) GetMaxAmmo() int            { return f.maxAmmo }
func (f fakeDisplay) IsReloading() bool          { return f.reloading }
func (f fakeDisplay) GetReloadProgress() float64 { return f.progress }

var _ weapon.Display = fakeDisplay{}

func sameColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}

// TestLabel tests the status text
func TestLabel(t *testing.T) {
	tests := []struct {
		name    string
		display fakeDisplay
		want    string
	}{
		{"full", fakeDisplay{ammo: 30, maxAmmo: 30}, "30 / 30"},
		{"one spent", fakeDisplay{ammo: 29, maxAmmo: 30}, "29 / 30"},
		{"empty", fakeDisplay{ammo: 0, maxAmmo: 30}, "EMPTY"},
		{"reloading", fakeDisplay{ammo: 0, maxAmmo: 30, reloading: true, progress: 0.4}, "RELOADING 40%"},
		{"reloading rounds down", fakeDisplay{maxAmmo: 30, reloading: true, progress: 0.999}, "RELOADING 99%"},
		{"progress clamped", fakeDisplay{maxAmmo: 30, reloading: true, progress: 1.7}, "RELOADING 100%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Label(tt.display); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestLowAmmo tests the 20% threshold
func TestLowAmmo(t *testing.T) {
	if LowAmmo(fakeDisplay{ammo: 7, maxAmmo: 30}) {
		t.Error("7/30 should not be low")
	}
	if !LowAmmo(fakeDisplay{ammo: 6, maxAmmo: 30}) {
		t.Error("6/30 should be low")
	}
	if LowAmmo(fakeDisplay{}) {
		t.Error("Zero capacity is never low")
	}
	if ammoColor(fakeDisplay{ammo: 0, maxAmmo: 30}) != colorEmpty {
		t.Error("Empty magazine should use the empty color")
	}
	if ammoColor(fakeDisplay{ammo: 3, maxAmmo: 30}) != colorLowAmmo {
		t.Error("Low magazine should use the low ammo color")
	}
}

// TestPipLayout tests that large magazines are grouped
func TestPipLayout(t *testing.T) {
	tests := []struct {
		maxAmmo    int
		wantPips   int
		wantPerPip int
	}{
		{0, 0, 0},
		{12, 12, 1},
		{60, 60, 1},
		{61, 31, 2},
		{100, 50, 2},
		{200, 50, 4},
	}

	for _, tt := range tests {
		pips, perPip := pipLayout(tt.maxAmmo)
		if pips != tt.wantPips || perPip != tt.wantPerPip {
			t.Errorf("pipLayout(%d) = %d, %d; want %d, %d", tt.maxAmmo, pips, perPip, tt.wantPips, tt.wantPerPip)
		}
	}
}

// TestRenderReloadBar tests that the bar fill follows progress
func TestRenderReloadBar(t *testing.T) {
	r := NewRenderer(DefaultConfig())
	x, y, w, h := r.reloadBarRect()
	filledX := int(x + w*0.1)
	trackX := int(x + w*0.9)
	rowY := int(y + h/2)

	img := r.Render(fakeDisplay{maxAmmo: 30, reloading: true, progress: 0.5})
	if img.Bounds() != image.Rect(0, 0, 320, 180) {
		t.Fatalf("Unexpected bounds %v", img.Bounds())
	}
	if !sameColor(img.At(filledX, rowY), r.accent) {
		t.Errorf("Expected accent fill at %d,%d, got %v", filledX, rowY, img.At(filledX, rowY))
	}
	if !sameColor(img.At(trackX, rowY), colorBarTrack) {
		t.Errorf("Expected empty track at %d,%d, got %v", trackX, rowY, img.At(trackX, rowY))
	}

	idle := r.Render(fakeDisplay{ammo: 30, maxAmmo: 30})
	if !sameColor(idle.At(filledX, rowY), colorBackground) {
		t.Error("Reload bar should not be drawn when ready")
	}
}

// TestRenderCrosshairGap tests that the crosshair opens up while reloading
func TestRenderCrosshairGap(t *testing.T) {
	r := NewRenderer(DefaultConfig())
	cx, cy := r.center()
	px := int(cx + crosshairGap + crosshairArm/2)
	py := int(cy) - 1

	ready := r.Render(fakeDisplay{ammo: 30, maxAmmo: 30})
	if !sameColor(ready.At(px, py), colorText) {
		t.Errorf("Expected crosshair arm at %d,%d, got %v", px, py, ready.At(px, py))
	}

	reloading := r.Render(fakeDisplay{maxAmmo: 30, reloading: true, progress: 0.2})
	if !sameColor(reloading.At(px, py), colorBackground) {
		t.Errorf("Expected widened gap at %d,%d, got %v", px, py, reloading.At(px, py))
	}
}

// TestEncodePNG tests the PNG output
func TestEncodePNG(t *testing.T) {
	r := NewRenderer(Config{Width: 64, Height: 48})

	var buf bytes.Buffer
	if err := r.EncodePNG(&buf, fakeDisplay{ammo: 5, maxAmmo: 12}); err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Output is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 48 {
		t.Errorf("Unexpected size %v", img.Bounds())
	}
	if r.GetConfig().Accent != DefaultConfig().Accent {
		t.Error("Missing accent should fall back to the default")
	}
}

// TestParseHexColor tests color parsing fallbacks
func TestParseHexColor(t *testing.T) {
	if c := parseHexColor("#ff8000"); c != (color.RGBA{255, 128, 0, 255}) {
		t.Errorf("Unexpected color %v", c)
	}
	if c := parseHexColor("orange"); c != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("Invalid input should be white, got %v", c)
	}
	if c := parseHexColor("#zzzzzz"); c != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("Invalid hex should be white, got %v", c)
	}
}
