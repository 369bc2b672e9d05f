package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hitscan-arena/internal/weapon"
)

// TestLoadDefaults tests the default configuration
func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Simulation.TickRate <= 0 {
		t.Errorf("TickRate should be positive, got %d", cfg.Simulation.TickRate)
	}
	if cfg.Server.Port != 3000 && os.Getenv("PORT") == "" {
		t.Errorf("Expected default port 3000, got %d", cfg.Server.Port)
	}
	if cfg.Simulation.ImpactTTL != 2.0 {
		t.Errorf("Impact markers should live 2s, got %v", cfg.Simulation.ImpactTTL)
	}
	if cfg.Limits.MaxShooters <= 0 || cfg.Limits.MaxEffects <= 0 {
		t.Error("Limits should be positive")
	}
}

// TestEnvOverrides tests environment variable precedence
func TestEnvOverrides(t *testing.T) {
	t.Setenv("TICK_RATE", "120")
	t.Setenv("PORT", "8081")
	t.Setenv("CUE_AUDIO_ENABLED", "false")
	t.Setenv("MAX_SHOOTERS", "notanumber")
	t.Setenv("EVENT_LOG_PATH", "")
	t.Setenv("SHOOTER_AUTH", "true")

	cfg := Load()

	if cfg.Simulation.TickRate != 120 {
		t.Errorf("Expected tick rate 120, got %d", cfg.Simulation.TickRate)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("Expected port 8081, got %d", cfg.Server.Port)
	}
	if cfg.Audio.Enabled {
		t.Error("Audio should be disabled")
	}
	if cfg.Limits.MaxShooters != DefaultLimits().MaxShooters {
		t.Errorf("Invalid override should keep default, got %d", cfg.Limits.MaxShooters)
	}
	if cfg.Server.EventLogPath != "" {
		t.Errorf("Empty EVENT_LOG_PATH should disable the file, got %q", cfg.Server.EventLogPath)
	}
	if !cfg.Server.ShooterAuth {
		t.Error("Shooter auth should be enabled")
	}
}

// TestParsePresets tests YAML preset decoding
func TestParsePresets(t *testing.T) {
	doc := `
weapons:
  - id: smg
    name: SMG
    color: "#ff9800"
    damage: 6
    range: 40
    fire_rate: 15
    max_ammo: 40
    reload_duration: 1.2
  - id: marksman
    name: Marksman
    damage: 45
    range: 300
    fire_rate: 1.5
    max_ammo: 5
    reload_duration: 2.5
`
	presets, err := ParsePresets(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParsePresets failed: %v", err)
	}
	if len(presets) != 2 {
		t.Fatalf("Expected 2 presets, got %d", len(presets))
	}

	smg := presets[0]
	want := weapon.Config{Damage: 6, Range: 40, FireRate: 15, MaxAmmo: 40, ReloadDuration: 1.2}
	if smg.Config != want {
		t.Errorf("Expected %+v, got %+v", want, smg.Config)
	}
	if smg.Color != "#ff9800" {
		t.Errorf("Expected color, got %q", smg.Color)
	}
}

// TestParsePresetsRejectsBadInput tests preset validation
func TestParsePresetsRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "zero fire rate",
			doc:     "weapons:\n  - id: broken\n    fire_rate: 0\n    max_ammo: 5\n    reload_duration: 1\n",
			wantErr: weapon.ErrInvalidConfig,
		},
		{
			name:    "missing id",
			doc:     "weapons:\n  - fire_rate: 1\n    max_ammo: 5\n    reload_duration: 1\n",
			wantErr: ErrInvalidPreset,
		},
		{
			name:    "duplicate id",
			doc:     "weapons:\n  - {id: a, fire_rate: 1, max_ammo: 1, reload_duration: 1}\n  - {id: a, fire_rate: 1, max_ammo: 1, reload_duration: 1}\n",
			wantErr: ErrInvalidPreset,
		},
		{
			name: "unknown field",
			doc:  "weapons:\n  - {id: a, firerate: 1, max_ammo: 1, reload_duration: 1}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePresets(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestLoadPresetsFile tests reading presets from disk
func TestLoadPresetsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weapons.yaml")
	doc := "weapons:\n  - {id: pistol, name: Pistol, damage: 20, range: 50, fire_rate: 3, max_ammo: 12, reload_duration: 1}\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	presets, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets failed: %v", err)
	}
	if len(presets) != 1 || presets[0].ID != "pistol" || presets[0].MaxAmmo != 12 {
		t.Errorf("Unexpected presets: %+v", presets)
	}

	if _, err := LoadPresets(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Missing file should fail")
	}

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	os.WriteFile(empty, nil, 0644)
	if presets, err := LoadPresets(empty); err != nil || len(presets) != 0 {
		t.Errorf("Empty file should yield no presets, got %v, %v", presets, err)
	}
}
