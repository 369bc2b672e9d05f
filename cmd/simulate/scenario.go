package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"hitscan-arena/internal/audio"
	"hitscan-arena/internal/config"
	"hitscan-arena/internal/game"
	"hitscan-arena/internal/hud"
	"hitscan-arena/internal/weapon"
)

// scenario is one headless run: a single shooter holding fire down a lane
// of targets.
type scenario struct {
	Ticks     int
	Weapon    string
	Targets   int
	TargetHP  float64
	Spacing   float64
	Wall      bool  // put a box between the shooter and the lane
	FireTicks int   // hold fire for this many ticks; 0 = the whole run
	ReloadAt  int   // request a manual reload on this tick; 0 = never
	Seed      int64 // 0 = ARENA_SEED or time based
	Presets   string

	HUDDir   string
	HUDEvery int
	EventLog string
	PCMPath  string
	Trace    bool
}

// summary is what a run prints at the end
type summary struct {
	Ticks     uint64
	Shooter   game.ShooterSnapshot
	Stats     game.EngineStats
	Frames    int
	PCMBytes  int
	Destroyed []string
}

const laneZ = 50.0

func defaultScenario() scenario {
	return scenario{
		Ticks:    600,
		Weapon:   game.DefaultWeaponID,
		Targets:  3,
		TargetHP: game.DefaultTargetHP,
		Spacing:  10,
		HUDEvery: 30,
	}
}

func (sc scenario) validate() error {
	if sc.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", sc.Ticks)
	}
	if sc.Targets < 0 {
		return fmt.Errorf("targets must not be negative, got %d", sc.Targets)
	}
	if sc.Spacing <= 0 {
		return fmt.Errorf("spacing must be positive, got %g", sc.Spacing)
	}
	if sc.HUDDir != "" && sc.HUDEvery <= 0 {
		return fmt.Errorf("hud-every must be positive, got %d", sc.HUDEvery)
	}
	return nil
}

// run executes the scenario tick by tick and writes a trace to out.
func run(appCfg config.AppConfig, sc scenario, out io.Writer) (summary, error) {
	var sum summary
	if err := sc.validate(); err != nil {
		return sum, err
	}

	engCfg := game.EngineConfigFrom(appCfg)
	if sc.Seed != 0 {
		engCfg.Seed = sc.Seed
	}
	engine := game.NewEngine(engCfg)

	if sc.Presets != "" {
		presets, err := config.LoadPresets(sc.Presets)
		if err != nil {
			return sum, err
		}
		if err := engine.GetArmory().Register(presets...); err != nil {
			return sum, err
		}
	}

	if sc.EventLog != "" {
		if err := engine.StartEventLog(sc.EventLog); err != nil {
			return sum, fmt.Errorf("event log: %w", err)
		}
		defer engine.StopEventLog()
	}

	if sc.PCMPath != "" {
		f, err := os.Create(sc.PCMPath)
		if err != nil {
			return sum, err
		}
		defer f.Close()
		pcm := bufio.NewWriter(f)
		defer pcm.Flush()

		audioCfg := appCfg.Audio
		audioCfg.Enabled = true
		bank := audio.NewBank(audioCfg.SampleRate)
		if audioCfg.SoundsDir != "" {
			if _, err := bank.LoadDir(audioCfg.SoundsDir); err != nil {
				log.Printf("⚠️ Cue sounds: %v", err)
			}
		}
		mixer := audio.NewMixer(bank, audioCfg, engCfg.TickRate, appCfg.Limits.MaxVoices)
		engine.SetAudio(mixer, func(frame []byte) {
			n, _ := pcm.Write(frame)
			sum.PCMBytes += n
		})
	}

	var renderer *hud.Renderer
	if sc.HUDDir != "" {
		if err := os.MkdirAll(sc.HUDDir, 0o755); err != nil {
			return sum, err
		}
		renderer = hud.NewRenderer(hud.Config{
			Width:  appCfg.Simulation.HUDWidth,
			Height: appCfg.Simulation.HUDHeight,
		})
	}

	origin := weapon.Vec3{X: 10, Z: laneZ}
	shooter, err := engine.AddShooter("sim", game.ShooterOptions{
		WeaponID: sc.Weapon,
		Position: &origin,
	})
	if err != nil {
		return sum, err
	}

	eye := appCfg.Simulation.EyeHeight
	for i := 0; i < sc.Targets; i++ {
		_, err := engine.AddTarget(game.TargetOptions{
			Name:     fmt.Sprintf("target-%d", i+1),
			Position: weapon.Vec3{X: origin.X + sc.Spacing*float64(i+1), Y: eye, Z: laneZ},
			HP:       sc.TargetHP,
		})
		if err != nil {
			return sum, err
		}
	}
	if sc.Wall {
		mid := origin.X + sc.Spacing/2
		if _, err := engine.AddObstacle(
			weapon.Vec3{X: mid - 0.25, Y: 0, Z: laneZ - 2},
			weapon.Vec3{X: mid + 0.25, Y: 3, Z: laneZ + 2},
		); err != nil {
			return sum, err
		}
	}
	if err := engine.AimAt(shooter.ID, weapon.Vec3{X: origin.X + sc.Spacing, Y: eye, Z: laneZ}); err != nil {
		return sum, err
	}

	var tick int
	trace := func(format string, args ...interface{}) {
		if sc.Trace {
			fmt.Fprintf(out, "tick %5d  "+format+"\n", append([]interface{}{tick}, args...)...)
		}
	}
	engine.SetCallbacks(game.Callbacks{
		OnShot: func(s game.ShooterSnapshot, shot weapon.ShotResult) {
			switch {
			case shot.Applied:
				trace("shot   hit %s for %.1f  ammo %d/%d", shortID(shot.EntityID), shot.Damage, s.Ammo, s.MaxAmmo)
			case shot.Hit:
				trace("shot   blocked at %.2f,%.2f,%.2f  ammo %d/%d", shot.Point.X, shot.Point.Y, shot.Point.Z, s.Ammo, s.MaxAmmo)
			default:
				trace("shot   miss  ammo %d/%d", s.Ammo, s.MaxAmmo)
			}
		},
		OnReload: func(s game.ShooterSnapshot, outcome weapon.Outcome) {
			trace("%-6s ammo %d/%d", outcome, s.Ammo, s.MaxAmmo)
		},
		OnDestroyed: func(_ game.ShooterSnapshot, t game.TargetSnapshot) {
			trace("destroyed %s", t.Name)
			sum.Destroyed = append(sum.Destroyed, t.Name)
		},
		OnClockViolation: func(id string) {
			trace("clock violation on %s", id)
		},
	})

	for tick = 1; tick <= sc.Ticks; tick++ {
		fire := sc.FireTicks == 0 || tick <= sc.FireTicks
		if err := engine.SetInput(shooter.ID, fire, tick == sc.ReloadAt); err != nil {
			return sum, err
		}
		engine.Advance(1)
		if sc.EventLog != "" {
			engine.FlushEventLog()
		}

		if renderer != nil && tick%sc.HUDEvery == 0 {
			snap, _ := engine.GetShooter(shooter.ID)
			if err := writeHUD(renderer, sc.HUDDir, tick, snap); err != nil {
				return sum, err
			}
			sum.Frames++
		}
	}

	sum.Ticks = engine.GetTickCount()
	sum.Shooter, _ = engine.GetShooter(shooter.ID)
	sum.Stats = engine.GetStats()
	return sum, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func writeHUD(r *hud.Renderer, dir string, tick int, d weapon.Display) error {
	f, err := os.Create(filepath.Join(dir, fmt.Sprintf("hud_%05d.png", tick)))
	if err != nil {
		return err
	}
	if err := r.EncodePNG(f, d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s summary) print(w io.Writer) {
	fmt.Fprintf(w, "\n%d ticks, %.2fs simulated\n", s.Ticks, s.Stats.Now)
	fmt.Fprintf(w, "weapon     %s  ammo %d/%d  reloading=%v\n", s.Shooter.WeaponID, s.Shooter.Ammo, s.Shooter.MaxAmmo, s.Shooter.Reloading)
	fmt.Fprintf(w, "shots      %d  (hits %d, misses %d)\n", s.Stats.ShotsFired, s.Stats.Hits, s.Stats.Misses)
	fmt.Fprintf(w, "damage     %.1f\n", s.Stats.DamageApplied)
	fmt.Fprintf(w, "reloads    %d started, %d finished\n", s.Stats.ReloadsStarted, s.Stats.ReloadsFinished)
	fmt.Fprintf(w, "destroyed  %d %v\n", s.Stats.TargetsDestroyed, s.Destroyed)
	if s.Frames > 0 {
		fmt.Fprintf(w, "hud        %d frames\n", s.Frames)
	}
	if s.PCMBytes > 0 {
		fmt.Fprintf(w, "audio      %d bytes s16le stereo\n", s.PCMBytes)
	}
}
