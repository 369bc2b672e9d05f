package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"hitscan-arena/internal/weapon"

	"gopkg.in/yaml.v3"
)

// ErrInvalidPreset is returned for presets that cannot be equipped.
var ErrInvalidPreset = errors.New("invalid weapon preset")

// WeaponPreset is a named weapon tuning that shooters can equip.
type WeaponPreset struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	Color         string `json:"color" yaml:"color"`
	weapon.Config `yaml:",inline"`
}

// Validate checks the preset identity and its weapon tuning.
func (p WeaponPreset) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("preset id is required: %w", ErrInvalidPreset)
	}
	if err := p.Config.Validate(); err != nil {
		return fmt.Errorf("preset %q: %w", p.ID, err)
	}
	return nil
}

// presetFile is the on-disk layout:
//
//	weapons:
//	  - id: rifle
//	    name: Rifle
//	    damage: 10
//	    range: 100
//	    fire_rate: 10
//	    max_ammo: 30
//	    reload_duration: 1.5
type presetFile struct {
	Weapons []WeaponPreset `yaml:"weapons"`
}

// ParsePresets decodes and validates a preset document.
// Unknown keys are rejected so typos don't silently fall back to zero values.
func ParsePresets(r io.Reader) ([]WeaponPreset, error) {
	var file presetFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode presets: %w", err)
	}

	seen := make(map[string]bool, len(file.Weapons))
	for _, p := range file.Weapons {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate preset %q: %w", p.ID, ErrInvalidPreset)
		}
		seen[p.ID] = true
	}
	return file.Weapons, nil
}

// LoadPresets reads presets from a YAML file.
func LoadPresets(path string) ([]WeaponPreset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParsePresets(f)
}
