package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"hitscan-arena/internal/api"
	"hitscan-arena/internal/audio"
	"hitscan-arena/internal/config"
	"hitscan-arena/internal/game"
	"hitscan-arena/internal/hud"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		// Try current directory as fallback
		if err := godotenv.Load(".env"); err != nil {
			log.Println("💡 No .env file found, using environment variables only")
		}
	} else {
		log.Println("✅ Loaded environment from ../.env")
	}

	log.Println("🎯 ================================")
	log.Println("🎯  HITSCAN ARENA - GO ENGINE")
	log.Println("🎯 ================================")

	// Load centralized configuration
	appConfig := config.Load()
	simCfg := appConfig.Simulation
	audioCfg := appConfig.Audio
	serverCfg := appConfig.Server

	port := strconv.Itoa(serverCfg.Port)

	engine := game.NewEngine(game.EngineConfigFrom(appConfig))
	limits := engine.GetLimits()
	log.Printf("🎮 Config: %d TPS, world %.0fx%.0f, seed %d", simCfg.TickRate, simCfg.WorldWidth, simCfg.WorldDepth, simCfg.DefaultSeed)
	log.Printf("🛡️ Resource limits: %d shooters, %d targets, %d obstacles, %d effects",
		limits.MaxShooters, limits.MaxTargets, limits.MaxObstacles, limits.MaxEffects)

	// Extra weapon presets on top of the built-in armory
	if serverCfg.PresetsPath != "" {
		presets, err := config.LoadPresets(serverCfg.PresetsPath)
		if err != nil {
			log.Fatalf("❌ Failed to load weapon presets: %v", err)
		}
		if err := engine.GetArmory().Register(presets...); err != nil {
			log.Fatalf("❌ Failed to register weapon presets: %v", err)
		}
		log.Printf("🔫 Loaded %d weapon presets from %s", len(presets), serverCfg.PresetsPath)
	}

	// Start event log
	if serverCfg.EventLogPath != "" {
		if err := engine.StartEventLog(serverCfg.EventLogPath); err != nil {
			log.Printf("⚠️ Event log disabled: %v", err)
		} else {
			log.Printf("📝 Event log: %s", serverCfg.EventLogPath)
		}
	}

	// Start debug server
	debugCfg := api.DefaultObservabilityConfig()
	debugCfg.ListenAddr = serverCfg.DebugAddr
	debugCfg.BasicAuthUser = os.Getenv("DEBUG_USER")
	debugCfg.BasicAuthPass = os.Getenv("DEBUG_PASS")
	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(debugCfg); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	renderer := hud.NewRenderer(hud.Config{
		Width:  simCfg.HUDWidth,
		Height: simCfg.HUDHeight,
	})

	server := api.NewServer(engine, api.ServerOptions{
		HUD:         renderer,
		ShooterAuth: serverCfg.ShooterAuth,
	})
	if serverCfg.ShooterAuth {
		log.Println("🔐 Shooter tokens ENABLED")
	} else {
		log.Println("⚠️ Shooter tokens DISABLED (set SHOOTER_AUTH=true to enable)")
	}

	// Cue audio, streamed to ?audio=1 WebSocket clients
	if audioCfg.Enabled {
		bank := audio.NewBank(audioCfg.SampleRate)
		if audioCfg.SoundsDir != "" {
			n, err := bank.LoadDir(audioCfg.SoundsDir)
			if err != nil {
				log.Printf("⚠️ Cue sounds: %v", err)
			}
			log.Printf("🔊 Loaded %d cue sounds from %s", n, audioCfg.SoundsDir)
		}
		mixer := audio.NewMixer(bank, audioCfg, simCfg.TickRate, limits.MaxVoices)
		engine.SetAudio(mixer, server.Hub().BroadcastAudio)
		log.Printf("🔊 Cue audio: %d Hz, %d bytes per tick", audioCfg.SampleRate, mixer.FrameBytes())
	} else {
		log.Println("🔇 Cue audio disabled")
	}

	engine.SetCallbacks(api.ChainCallbacks(
		api.MetricsCallbacks(),
		server.Hub().Callbacks(),
	))

	// Start game engine
	engine.Start()
	log.Println("✅ Arena engine started")

	// Start API server in goroutine
	go func() {
		addr := ":" + port
		log.Printf("🌐 API server on http://localhost%s", addr)

		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		log.Printf("⚠️ Server shutdown: %v", err)
	}
	engine.Stop()
	engine.StopEventLog()
	log.Println("👋 Goodbye!")
}
