// =============================================================================
// HITSCAN ARENA - SIMULATOR
// =============================================================================
// Runs the arena engine headless with simulated time, no ticker and no
// network:
// - One shooter holds the trigger down a lane of targets
// - Every shot, reload and kill is printed as a tick trace
// - Optionally writes HUD frames (PNG), the JSONL event log and cue audio
//
// USAGE:
//   go run ./cmd/simulate --ticks 600 --weapon smg --trace
//   go run ./cmd/simulate --hud-dir out/hud --pcm out/cues.pcm
//   ffplay -f s16le -ar 44100 -ac 2 out/cues.pcm
// =============================================================================
package main

import (
	"log"
	"os"

	"hitscan-arena/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Load environment
	if err := godotenv.Load("../.env"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	sc := defaultScenario()

	cmd := &cobra.Command{
		Use:          "simulate",
		Short:        "Run a headless hitscan scenario and print a tick trace",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appCfg := config.Load()
			sum, err := run(appCfg, sc, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			sum.print(cmd.OutOrStdout())
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&sc.Ticks, "ticks", sc.Ticks, "number of ticks to simulate")
	f.StringVar(&sc.Weapon, "weapon", sc.Weapon, "weapon preset to equip")
	f.IntVar(&sc.Targets, "targets", sc.Targets, "targets placed down the lane")
	f.Float64Var(&sc.TargetHP, "target-hp", sc.TargetHP, "hit points per target")
	f.Float64Var(&sc.Spacing, "spacing", sc.Spacing, "metres between targets")
	f.BoolVar(&sc.Wall, "wall", sc.Wall, "block the lane with an obstacle")
	f.IntVar(&sc.FireTicks, "fire-ticks", sc.FireTicks, "release the trigger after this many ticks (0 = never)")
	f.IntVar(&sc.ReloadAt, "reload-at", sc.ReloadAt, "request a manual reload on this tick (0 = never)")
	f.Int64Var(&sc.Seed, "seed", sc.Seed, "RNG seed (0 = ARENA_SEED or time based)")
	f.StringVar(&sc.Presets, "presets", sc.Presets, "YAML weapon presets file")
	f.StringVar(&sc.HUDDir, "hud-dir", sc.HUDDir, "write HUD PNG frames to this directory")
	f.IntVar(&sc.HUDEvery, "hud-every", sc.HUDEvery, "ticks between HUD frames")
	f.StringVar(&sc.EventLog, "events", sc.EventLog, "write the JSONL event log to this file")
	f.StringVar(&sc.PCMPath, "pcm", sc.PCMPath, "write mixed cue audio (s16le stereo) to this file")
	f.BoolVar(&sc.Trace, "trace", true, "print a line per shot, reload and kill")

	return cmd
}
