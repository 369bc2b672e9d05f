// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for arena, server and weapon settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// SIMULATION CONFIGURATION
// =============================================================================

// SimulationConfig holds the tick loop and world settings.
type SimulationConfig struct {
	TickRate    int     // Simulation ticks per second
	WorldWidth  float64 // Arena extent on X (metres)
	WorldDepth  float64 // Arena extent on Z (metres)
	EyeHeight   float64 // Ray origin height above the shooter's feet
	HUDWidth    int     // HUD frame width in pixels
	HUDHeight   int     // HUD frame height in pixels
	ImpactTTL   float64 // Seconds an impact marker stays visible
	FlashTTL    float64 // Seconds a muzzle flash stays visible
	DefaultSeed int64   // 0 = time based
}

// DefaultSimulation returns the default simulation configuration.
func DefaultSimulation() SimulationConfig {
	return SimulationConfig{
		TickRate:   60,
		WorldWidth: 200,
		WorldDepth: 200,
		EyeHeight:  1.7,
		HUDWidth:   640,
		HUDHeight:  360,
		ImpactTTL:  2.0, // impact prefab lifetime
		FlashTTL:   0.05,
	}
}

// SimulationFromEnv returns simulation configuration with environment variable overrides.
// Environment variables take precedence over defaults.
func SimulationFromEnv() SimulationConfig {
	cfg := DefaultSimulation()

	if tr := getEnvInt("TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}
	if w := getEnvFloat("WORLD_WIDTH", 0); w > 0 {
		cfg.WorldWidth = w
	}
	if d := getEnvFloat("WORLD_DEPTH", 0); d > 0 {
		cfg.WorldDepth = d
	}
	if w := getEnvInt("HUD_WIDTH", 0); w > 0 {
		cfg.HUDWidth = w
	}
	if h := getEnvInt("HUD_HEIGHT", 0); h > 0 {
		cfg.HUDHeight = h
	}
	if seed := getEnvInt("ARENA_SEED", 0); seed != 0 {
		cfg.DefaultSeed = int64(seed)
	}

	return cfg
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// ResourceLimits controls DoS protection and performance limits.
type ResourceLimits struct {
	MaxShooters  int // Hard cap on equipped shooters
	MaxTargets   int // Hard cap on damageable targets
	MaxObstacles int // Hard cap on ray-blocking boxes
	MaxEffects   int // Live muzzle flashes + impact markers
	MaxVoices    int // Concurrent cue sounds in the mixer
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxShooters:  64,
		MaxTargets:   256,
		MaxObstacles: 128,
		MaxEffects:   200,
		MaxVoices:    8,
	}
}

// LimitsFromEnv returns resource limits with environment variable overrides.
func LimitsFromEnv() ResourceLimits {
	cfg := DefaultLimits()

	if v := getEnvInt("MAX_SHOOTERS", 0); v > 0 {
		cfg.MaxShooters = v
	}
	if v := getEnvInt("MAX_TARGETS", 0); v > 0 {
		cfg.MaxTargets = v
	}

	return cfg
}

// =============================================================================
// AUDIO CONFIGURATION
// =============================================================================

// AudioConfig holds cue mixer settings.
type AudioConfig struct {
	SampleRate int     // Audio sample rate in Hz
	Volume     float64 // Master volume (0.0 to 1.0)
	Enabled    bool    // Whether cue audio is generated at all
	SoundsDir  string  // Optional directory of <cue>.ogg overrides
}

// DefaultAudio returns the default audio configuration.
func DefaultAudio() AudioConfig {
	return AudioConfig{
		SampleRate: 44100,
		Volume:     0.5,
		Enabled:    true,
	}
}

// AudioFromEnv returns audio configuration with environment variable overrides.
func AudioFromEnv() AudioConfig {
	cfg := DefaultAudio()

	if v := getEnvFloat("CUE_VOLUME", -1); v >= 0 {
		cfg.Volume = v
	}
	if os.Getenv("CUE_AUDIO_ENABLED") == "false" {
		cfg.Enabled = false
	}
	if dir := os.Getenv("CUE_SOUNDS_DIR"); dir != "" {
		cfg.SoundsDir = dir
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int
	EventLogPath string
	PresetsPath  string
	DebugAddr    string // pprof + /metrics, localhost only
	ShooterAuth  bool   // require signed shooter tokens for input and aim
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:         3000,
		EventLogPath: "events.jsonl",
		DebugAddr:    "127.0.0.1:6060",
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if path, ok := os.LookupEnv("EVENT_LOG_PATH"); ok {
		cfg.EventLogPath = path // empty disables the file
	}
	if path := os.Getenv("WEAPON_PRESETS_PATH"); path != "" {
		cfg.PresetsPath = path
	}
	if addr := os.Getenv("DEBUG_ADDR"); addr != "" {
		cfg.DebugAddr = addr
	}
	if os.Getenv("SHOOTER_AUTH") == "true" {
		cfg.ShooterAuth = true
	}

	return cfg
}

// =============================================================================
// SPATIAL CONFIGURATION
// =============================================================================

// SpatialConfig holds spatial indexing settings.
type SpatialConfig struct {
	GridCellSize float64 // Broad-phase cell size for ray queries (metres)
}

// DefaultSpatial returns the default spatial configuration.
func DefaultSpatial() SpatialConfig {
	return SpatialConfig{
		GridCellSize: 10,
	}
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Simulation SimulationConfig
	Audio      AudioConfig
	Server     ServerConfig
	Limits     ResourceLimits
	Spatial    SpatialConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Simulation: SimulationFromEnv(),
		Audio:      AudioFromEnv(),
		Server:     ServerFromEnv(),
		Limits:     LimitsFromEnv(),
		Spatial:    DefaultSpatial(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
