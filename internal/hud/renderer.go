// Package hud draws a weapon's ammo counter, reload bar and crosshair.
//
// The renderer only reads weapon.Display. It never holds on to the display
// between calls, so a snapshot or a live controller can be passed in.
package hud

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"

	"hitscan-arena/internal/weapon"
)

// Config holds HUD frame settings
type Config struct {
	Width  int
	Height int
	Accent string // hex color used for the reload bar fill
}

// DefaultConfig returns a small HUD frame suitable for an overlay
func DefaultConfig() Config {
	return Config{
		Width:  320,
		Height: 180,
		Accent: "#00d4ff",
	}
}

// Layout constants
const (
	crosshairArm     = 10.0
	crosshairGap     = 4.0
	crosshairGapWide = 12.0 // while reloading
	crosshairWidth   = 2.0
	reloadBarHeight  = 6.0
	reloadBarOffsetY = 28.0 // below the crosshair
	pipSize          = 4.0
	pipSpacing       = 2.0
	maxPips          = 60
	lowAmmoFraction  = 0.2
	marginRight      = 12.0
	marginBottom     = 12.0
	ammoFontSize     = 22
	labelFontSize    = 11
)

var (
	colorBackground = color.RGBA{18, 18, 24, 255}
	colorText       = color.RGBA{255, 255, 255, 255}
	colorLowAmmo    = color.RGBA{255, 170, 0, 255}
	colorEmpty      = color.RGBA{255, 60, 60, 255}
	colorPipSpent   = color.RGBA{60, 62, 72, 255}
	colorBarTrack   = color.RGBA{40, 42, 52, 255}
)

// Renderer draws HUD frames. Safe for concurrent use.
type Renderer struct {
	cfg    Config
	accent color.RGBA

	mu        sync.Mutex
	fontAmmo  font.Face
	fontLabel font.Face
}

// NewRenderer creates a renderer and loads its font faces
func NewRenderer(cfg Config) *Renderer {
	def := DefaultConfig()
	if cfg.Width <= 0 {
		cfg.Width = def.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = def.Height
	}
	if cfg.Accent == "" {
		cfg.Accent = def.Accent
	}

	r := &Renderer{
		cfg:    cfg,
		accent: parseHexColor(cfg.Accent),
	}
	r.loadFonts()
	return r
}

// loadFonts parses the bundled Go Mono Bold face. basicfont is the fallback.
func (r *Renderer) loadFonts() {
	r.fontAmmo = basicfont.Face7x13
	r.fontLabel = basicfont.Face7x13

	parsed, err := opentype.Parse(gomonobold.TTF)
	if err != nil {
		log.Printf("⚠️ Failed to parse HUD font: %v", err)
		return
	}

	ammo, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    ammoFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Printf("⚠️ Failed to create ammo font face: %v", err)
		return
	}
	label, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    labelFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Printf("⚠️ Failed to create label font face: %v", err)
		return
	}

	r.fontAmmo = ammo
	r.fontLabel = label
}

// GetConfig returns the frame settings in use
func (r *Renderer) GetConfig() Config {
	return r.cfg
}

// Render draws one HUD frame for d
func (r *Renderer) Render(d weapon.Display) image.Image {
	return r.draw(d).Image()
}

// EncodePNG renders d and writes it to w as PNG
func (r *Renderer) EncodePNG(w io.Writer, d weapon.Display) error {
	return r.draw(d).EncodePNG(w)
}

func (r *Renderer) draw(d weapon.Display) *gg.Context {
	dc := gg.NewContext(r.cfg.Width, r.cfg.Height)

	dc.SetColor(colorBackground)
	dc.Clear()

	// opentype faces are not safe for concurrent use
	r.mu.Lock()
	defer r.mu.Unlock()

	r.drawCrosshair(dc, d)
	r.drawReloadBar(dc, d)
	r.drawAmmo(dc, d)

	return dc
}

func (r *Renderer) center() (float64, float64) {
	return float64(r.cfg.Width) / 2, float64(r.cfg.Height) / 2
}

func (r *Renderer) drawCrosshair(dc *gg.Context, d weapon.Display) {
	cx, cy := r.center()
	gap := crosshairGap
	if d.IsReloading() {
		gap = crosshairGapWide
	}

	dc.SetColor(ammoColor(d))
	dc.SetLineWidth(crosshairWidth)
	dc.SetLineCapButt()
	dc.DrawLine(cx-gap-crosshairArm, cy, cx-gap, cy)
	dc.DrawLine(cx+gap, cy, cx+gap+crosshairArm, cy)
	dc.DrawLine(cx, cy-gap-crosshairArm, cx, cy-gap)
	dc.DrawLine(cx, cy+gap, cx, cy+gap+crosshairArm)
	dc.Stroke()
}

// reloadBarRect returns the bar track in frame coordinates
func (r *Renderer) reloadBarRect() (x, y, w, h float64) {
	cx, cy := r.center()
	w = math.Round(float64(r.cfg.Width) / 3)
	x = math.Round(cx - w/2)
	y = math.Round(cy + reloadBarOffsetY)
	return x, y, w, reloadBarHeight
}

func (r *Renderer) drawReloadBar(dc *gg.Context, d weapon.Display) {
	if !d.IsReloading() {
		return
	}

	x, y, w, h := r.reloadBarRect()
	dc.SetColor(colorBarTrack)
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()

	progress := clamp01(d.GetReloadProgress())
	if progress > 0 {
		dc.SetColor(r.accent)
		dc.DrawRectangle(x, y, w*progress, h)
		dc.Fill()
	}

	dc.SetFontFace(r.fontLabel)
	dc.SetColor(colorText)
	dc.DrawStringAnchored(Label(d), x+w/2, y+h+4, 0.5, 1)
}

func (r *Renderer) drawAmmo(dc *gg.Context, d weapon.Display) {
	right := float64(r.cfg.Width) - marginRight
	bottom := float64(r.cfg.Height) - marginBottom

	// Pips along the bottom edge, spent rounds dimmed
	pips, perPip := pipLayout(d.GetMaxAmmo())
	lit := 0
	if perPip > 0 {
		lit = int(math.Ceil(float64(d.GetCurrentAmmo()) / float64(perPip)))
	}
	for i := 0; i < pips; i++ {
		x := right - float64(pips-i)*(pipSize+pipSpacing) + pipSpacing
		if i < lit {
			dc.SetColor(ammoColor(d))
		} else {
			dc.SetColor(colorPipSpent)
		}
		dc.DrawRectangle(x, bottom-pipSize, pipSize, pipSize)
		dc.Fill()
	}

	dc.SetFontFace(r.fontAmmo)
	dc.SetColor(ammoColor(d))
	dc.DrawStringAnchored(ammoText(d), right, bottom-pipSize-6, 1, 0)
}

// pipLayout returns the number of pips to draw and rounds per pip
func pipLayout(maxAmmo int) (pips, perPip int) {
	if maxAmmo <= 0 {
		return 0, 0
	}
	perPip = (maxAmmo + maxPips - 1) / maxPips
	pips = (maxAmmo + perPip - 1) / perPip
	return pips, perPip
}

func ammoText(d weapon.Display) string {
	return fmt.Sprintf("%d / %d", d.GetCurrentAmmo(), d.GetMaxAmmo())
}

// Label returns the status text for d: "RELOADING 40%", "EMPTY" or "29 / 30".
func Label(d weapon.Display) string {
	if d.IsReloading() {
		return fmt.Sprintf("RELOADING %d%%", int(math.Floor(clamp01(d.GetReloadProgress())*100)))
	}
	if d.GetCurrentAmmo() <= 0 {
		return "EMPTY"
	}
	return ammoText(d)
}

// LowAmmo reports whether the magazine is at or below a fifth of capacity
func LowAmmo(d weapon.Display) bool {
	capacity := d.GetMaxAmmo()
	if capacity <= 0 {
		return false
	}
	return float64(d.GetCurrentAmmo()) <= float64(capacity)*lowAmmoFraction
}

func ammoColor(d weapon.Display) color.RGBA {
	switch {
	case d.GetCurrentAmmo() <= 0:
		return colorEmpty
	case LowAmmo(d):
		return colorLowAmmo
	default:
		return colorText
	}
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func parseHexColor(hex string) color.RGBA {
	if len(hex) != 7 || hex[0] != '#' {
		return color.RGBA{255, 255, 255, 255}
	}

	var r, g, b uint8
	if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{255, 255, 255, 255}
	}
	return color.RGBA{r, g, b, 255}
}
