package game

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"hitscan-arena/internal/config"
	"hitscan-arena/internal/game/spatial"
	"hitscan-arena/internal/weapon"

	"github.com/google/uuid"
)

var (
	ErrShooterNotFound = errors.New("shooter not found")
	ErrTargetNotFound  = errors.New("target not found")
	ErrUnknownWeapon   = errors.New("unknown weapon preset")
	ErrLimitReached    = errors.New("arena limit reached")
)

// EngineConfig holds everything the engine needs from the app configuration.
type EngineConfig struct {
	TickRate     int
	WorldWidth   float64
	WorldDepth   float64
	EyeHeight    float64
	ImpactTTL    float64
	FlashTTL     float64
	GridCellSize float64
	Seed         int64 // 0 = time based
	Limits       config.ResourceLimits
}

// EngineConfigFrom extracts the engine settings from the app configuration.
func EngineConfigFrom(cfg config.AppConfig) EngineConfig {
	return EngineConfig{
		TickRate:     cfg.Simulation.TickRate,
		WorldWidth:   cfg.Simulation.WorldWidth,
		WorldDepth:   cfg.Simulation.WorldDepth,
		EyeHeight:    cfg.Simulation.EyeHeight,
		ImpactTTL:    cfg.Simulation.ImpactTTL,
		FlashTTL:     cfg.Simulation.FlashTTL,
		GridCellSize: cfg.Spatial.GridCellSize,
		Seed:         cfg.Simulation.DefaultSeed,
		Limits:       cfg.Limits,
	}
}

// DefaultEngineConfig returns the engine settings without env overrides.
func DefaultEngineConfig() EngineConfig {
	return EngineConfigFrom(config.AppConfig{
		Simulation: config.DefaultSimulation(),
		Limits:     config.DefaultLimits(),
		Spatial:    config.DefaultSpatial(),
	})
}

// Callbacks are invoked synchronously from the tick, with the engine lock
// held. They must not call back into the Engine.
type Callbacks struct {
	OnJoin           func(shooter ShooterSnapshot)
	OnShot           func(shooter ShooterSnapshot, shot weapon.ShotResult)
	OnReload         func(shooter ShooterSnapshot, outcome weapon.Outcome)
	OnDestroyed      func(shooter ShooterSnapshot, target TargetSnapshot)
	OnClockViolation func(shooterID string)
	OnTick           func(tick uint64, took time.Duration)
}

// AudioSource mixes cue sounds into one PCM frame per tick.
type AudioSource interface {
	CuePlayer
	GenerateFrame() []byte
}

// EngineStats are cumulative counters since the engine was created.
type EngineStats struct {
	Ticks            uint64            `json:"ticks"`
	Now              float64           `json:"now"`
	Shooters         int               `json:"shooters"`
	Targets          int               `json:"targets"`
	LiveTargets      int               `json:"liveTargets"`
	Obstacles        int               `json:"obstacles"`
	Effects          int               `json:"effects"`
	ShotsFired       uint64            `json:"shotsFired"`
	Hits             uint64            `json:"hits"`
	Misses           uint64            `json:"misses"`
	DamageApplied    float64           `json:"damageApplied"`
	ReloadsStarted   uint64            `json:"reloadsStarted"`
	ReloadsFinished  uint64            `json:"reloadsFinished"`
	TargetsDestroyed uint64            `json:"targetsDestroyed"`
	ClockViolations  uint64            `json:"clockViolations"`
	EffectsDropped   uint64            `json:"effectsDropped"`
	Cues             map[string]uint64 `json:"cues"`
	LastTickMicros   int64             `json:"lastTickMicros"`
	Grid             spatial.GridStats `json:"grid"`
}

type engineCounters struct {
	ShotsFired       uint64
	Hits             uint64
	Misses           uint64
	DamageApplied    float64
	ReloadsStarted   uint64
	ReloadsFinished  uint64
	TargetsDestroyed uint64
	ClockViolations  uint64
	EffectsDropped   uint64
	Cues             map[weapon.CueKind]uint64
}

// Engine is the arena host: it owns the shooters and the world, and drives
// every weapon once per tick with the simulated clock.
type Engine struct {
	mu  sync.RWMutex
	cfg EngineConfig

	shooters map[string]*Shooter
	order    []*Shooter // join order; weapons step in this order
	world    *World
	effects  []Effect
	armory   *Armory

	tickRate  int
	tickCount uint64
	now       float64 // simulated seconds = tickCount / tickRate
	clock     engineClock
	epoch     time.Time

	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}

	stats        engineCounters
	lastTickTook time.Duration
	callbacks    Callbacks
	audio        AudioSource
	audioSink    func(frame []byte)
	snapshotPool *SnapshotPool
	eventLog     *EventLog
	limits       config.ResourceLimits
	rng          *rand.Rand
	rngSeed      int64
}

// engineClock is the weapon.Clock every controller polls. It reads the
// engine's simulated time, which only moves forward inside tick.
type engineClock struct{ e *Engine }

func (c engineClock) Now() float64 { return c.e.now }

// NewEngine creates a new arena engine
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.TickRate <= 0 {
		cfg.TickRate = config.DefaultSimulation().TickRate
	}
	if cfg.GridCellSize <= 0 {
		cfg.GridCellSize = config.DefaultSpatial().GridCellSize
	}
	limits := cfg.Limits
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	maxEntities := limits.MaxShooters + limits.MaxTargets + limits.MaxObstacles

	e := &Engine{
		cfg:          cfg,
		shooters:     make(map[string]*Shooter),
		order:        make([]*Shooter, 0, limits.MaxShooters),
		world:        NewWorld(cfg.WorldWidth, cfg.WorldDepth, cfg.GridCellSize, maxEntities),
		effects:      make([]Effect, 0, limits.MaxEffects),
		armory:       NewArmory(),
		tickRate:     cfg.TickRate,
		stats:        engineCounters{Cues: make(map[weapon.CueKind]uint64)},
		snapshotPool: NewSnapshotPool(limits),
		eventLog:     NewEventLog(),
		limits:       limits,
		rng:          rand.New(rand.NewSource(seed)),
		rngSeed:      seed,
	}
	e.clock = engineClock{e: e}
	e.epoch = time.Now()
	e.eventLog.SetClock(e.simTime)
	return e
}

// simTime maps simulated seconds onto a wall-clock timeline starting at
// engine creation. Only read from inside the engine lock.
func (e *Engine) simTime() time.Time {
	return e.epoch.Add(time.Duration(e.now * float64(time.Second)))
}

// Start begins the game loop
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	// A fresh channel per run; Stop closes the previous one
	stop := make(chan struct{})
	e.stopChan = stop
	ticker := time.NewTicker(time.Second / time.Duration(e.tickRate))
	e.ticker = ticker
	e.mu.Unlock()

	go func() {
		for {
			select {
			case <-ticker.C:
				e.tick()
			case <-stop:
				return
			}
		}
	}()

	log.Printf("🎮 Arena engine started at %d TPS", e.tickRate)
}

// Stop stops the game loop
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}

	e.running = false
	if e.ticker != nil {
		e.ticker.Stop()
	}
	close(e.stopChan)
	log.Println("🛑 Arena engine stopped")
}

// Advance runs n ticks synchronously. Used by tests and the headless
// simulator instead of Start.
func (e *Engine) Advance(n int) {
	for i := 0; i < n; i++ {
		e.tick()
	}
}

// tick is called at tickRate times per second
func (e *Engine) tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()

	e.tickCount++
	e.now = float64(e.tickCount) / float64(e.tickRate)

	// Log tick event with RNG seed for deterministic replay
	e.eventLog.EmitSimple(EventTypeTick, e.tickCount, "",
		TickPayload{
			Now:          e.now,
			RNGSeed:      e.rngSeed,
			ShooterCount: len(e.order),
			TargetCount:  e.world.TargetCount(),
		})

	// Advance RNG seed deterministically for next tick
	e.rngSeed = e.rng.Int63()
	e.rng.Seed(e.rngSeed)

	e.respawnTargets()

	// Rebuild the broad phase once; every weapon this tick sees the same world
	e.world.Rebuild(e.order)

	for _, s := range e.order {
		outcome, shot := s.Weapon.Step(e.clock, &s.Input)
		e.handleOutcome(s, outcome, shot)
		e.checkClock(s)
	}

	e.updateEffects()

	if e.audio != nil && e.audioSink != nil {
		e.audioSink(e.audio.GenerateFrame())
	}

	e.ProduceSnapshot()

	e.lastTickTook = time.Since(start)
	if e.callbacks.OnTick != nil {
		e.callbacks.OnTick(e.tickCount, e.lastTickTook)
	}
}

func (e *Engine) handleOutcome(s *Shooter, outcome weapon.Outcome, shot *weapon.ShotResult) {
	switch outcome {
	case weapon.OutcomeShot:
		e.handleShot(s, shot)

	case weapon.OutcomeReloadStarted:
		s.Reloads++
		e.stats.ReloadsStarted++
		e.eventLog.EmitSimple(EventTypeReloadStart, e.tickCount, s.ID, ReloadPayload{
			ShooterID: s.ID,
			Ammo:      s.Weapon.GetCurrentAmmo(),
			MaxAmmo:   s.Weapon.GetMaxAmmo(),
			Duration:  s.Weapon.GetConfig().ReloadDuration,
		})
		if e.callbacks.OnReload != nil {
			e.callbacks.OnReload(s.ToSnapshot(), outcome)
		}

	case weapon.OutcomeReloadFinished:
		e.stats.ReloadsFinished++
		e.eventLog.EmitSimple(EventTypeReloadFinish, e.tickCount, s.ID, ReloadPayload{
			ShooterID: s.ID,
			Ammo:      s.Weapon.GetCurrentAmmo(),
			MaxAmmo:   s.Weapon.GetMaxAmmo(),
		})
		if e.callbacks.OnReload != nil {
			e.callbacks.OnReload(s.ToSnapshot(), outcome)
		}
	}
}

func (e *Engine) handleShot(s *Shooter, shot *weapon.ShotResult) {
	e.stats.ShotsFired++
	s.LastShot = shot
	s.LastShotAt = e.now

	if shot.Hit {
		s.Hits++
		e.stats.Hits++
	} else {
		s.Misses++
		e.stats.Misses++
	}

	e.eventLog.EmitSimple(EventTypeShot, e.tickCount, s.ID, ShotPayload{
		ShooterID: s.ID,
		Origin:    shot.Origin,
		Direction: shot.Direction,
		Hit:       shot.Hit,
		EntityID:  shot.EntityID,
		Point:     shot.Point,
		AmmoLeft:  s.Weapon.GetCurrentAmmo(),
	})

	if shot.Applied {
		s.DamageDealt += shot.Damage
		e.stats.DamageApplied += shot.Damage

		if t := e.world.GetTarget(shot.EntityID); t != nil {
			e.eventLog.EmitSimple(EventTypeDamage, e.tickCount, s.ID, DamagePayload{
				ShooterID: s.ID,
				TargetID:  t.ID,
				Damage:    shot.Damage,
				TargetHP:  t.HP,
				WeaponID:  s.WeaponID,
			})

			// The resolver never hands out destroyed targets, so this shot did it
			if t.Destroyed {
				t.DestroyedAt = e.now
				s.Kills++
				e.stats.TargetsDestroyed++
				e.eventLog.EmitSimple(EventTypeTargetDestroyed, e.tickCount, s.ID, TargetDestroyedPayload{
					ShooterID:    s.ID,
					TargetID:     t.ID,
					ShooterKills: s.Kills,
				})
				log.Printf("💥 %s destroyed %s", s.Name, t.Name)
				if e.callbacks.OnDestroyed != nil {
					e.callbacks.OnDestroyed(s.ToSnapshot(), t.ToSnapshot())
				}
			}
		}
	}

	if e.callbacks.OnShot != nil {
		e.callbacks.OnShot(s.ToSnapshot(), *shot)
	}
}

func (e *Engine) checkClock(s *Shooter) {
	v := s.Weapon.ClockViolations()
	if v == s.seenViolations {
		return
	}
	e.stats.ClockViolations += v - s.seenViolations
	s.seenViolations = v
	e.eventLog.EmitSimple(EventTypeClockViolation, e.tickCount, s.ID, ClockViolationPayload{
		ShooterID:  s.ID,
		Violations: v,
	})
	if e.callbacks.OnClockViolation != nil {
		e.callbacks.OnClockViolation(s.ID)
	}
}

func (e *Engine) respawnTargets() {
	for _, t := range e.world.Targets() {
		if !t.Destroyed || t.RespawnDelay <= 0 {
			continue
		}
		if e.now >= t.DestroyedAt+t.RespawnDelay {
			t.Respawn()
			e.eventLog.EmitSimple(EventTypeTargetRespawn, e.tickCount, "", TargetRespawnPayload{
				TargetID: t.ID,
				HP:       t.HP,
			})
		}
	}
}

// spawnEffect adds a visual effect, dropping it when the cap is reached
func (e *Engine) spawnEffect(ef Effect) {
	if len(e.effects) >= e.limits.MaxEffects {
		e.stats.EffectsDropped++
		return
	}
	ef.SpawnedAt = e.now
	e.effects = append(e.effects, ef)
}

// updateEffects removes expired effects (zero-allocation in-place filtering)
func (e *Engine) updateEffects() {
	alive := e.effects[:0]
	for _, ef := range e.effects {
		if ef.Alive(e.now) {
			alive = append(alive, ef)
		}
	}
	e.effects = alive
}

// AddShooter equips a new shooter with a weapon preset
func (e *Engine) AddShooter(name string, opts ShooterOptions) (ShooterSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// HARD CAP: Prevent DoS via shooter flooding
	if len(e.shooters) >= e.limits.MaxShooters {
		log.Printf("⚠️ Shooter limit reached (%d), rejecting: %s", e.limits.MaxShooters, name)
		return ShooterSnapshot{}, fmt.Errorf("%d shooters: %w", e.limits.MaxShooters, ErrLimitReached)
	}

	weaponID := opts.WeaponID
	if weaponID == "" {
		weaponID = DefaultWeaponID
	}
	preset, ok := e.armory.Lookup(weaponID)
	if !ok {
		return ShooterSnapshot{}, fmt.Errorf("%w: %q", ErrUnknownWeapon, weaponID)
	}

	id := uuid.NewString()
	if name == "" {
		name = "shooter-" + id[:8]
	}

	sink := &CueSink{engine: e}
	s, err := NewShooter(id, name, preset, e.cfg.EyeHeight, weapon.Options{
		Hitscan: e.world.For(id),
		Damage:  e.world,
		Cues:    sink,
	})
	if err != nil {
		return ShooterSnapshot{}, err
	}
	sink.shooter = s

	if opts.Position != nil {
		s.Position = *opts.Position
	} else {
		// Deterministic spawn inside the middle 80% of the arena
		s.Position = weapon.Vec3{
			X: e.rng.Float64()*e.cfg.WorldWidth*0.8 + e.cfg.WorldWidth*0.1,
			Z: e.rng.Float64()*e.cfg.WorldDepth*0.8 + e.cfg.WorldDepth*0.1,
		}
	}
	s.SetAim(opts.Yaw, opts.Pitch)
	if opts.Color != "" {
		s.Color = opts.Color
	}
	if s.Color == "" {
		s.Color = shooterColors[len(e.order)%len(shooterColors)]
	}
	s.JoinedAt = e.now

	e.shooters[id] = s
	e.order = append(e.order, s)

	e.eventLog.EmitSimple(EventTypeShooterJoin, e.tickCount, s.ID, ShooterJoinPayload{
		ShooterID: s.ID,
		Name:      s.Name,
		WeaponID:  s.WeaponID,
		Spawn:     s.Position,
	})

	snap := s.ToSnapshot()
	if e.callbacks.OnJoin != nil {
		e.callbacks.OnJoin(snap)
	}

	log.Printf("👤 Shooter joined: %s (%s)", s.Name, s.WeaponID)
	return snap, nil
}

// RemoveShooter drops a shooter and its weapon. A reload in progress simply
// never completes.
func (e *Engine) RemoveShooter(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.shooters[id]
	if !ok {
		return false
	}
	delete(e.shooters, id)
	for i, o := range e.order {
		if o == s {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}

	e.eventLog.EmitSimple(EventTypeShooterLeave, e.tickCount, s.ID, ShooterLeavePayload{
		ShooterID:  s.ID,
		ShotsFired: s.Weapon.ShotsFired(),
		Kills:      s.Kills,
	})
	log.Printf("👋 Shooter left: %s", s.Name)
	return true
}

// GetShooter returns a shooter snapshot by ID
func (e *Engine) GetShooter(id string) (ShooterSnapshot, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s, ok := e.shooters[id]
	if !ok {
		return ShooterSnapshot{}, false
	}
	return s.ToSnapshot(), true
}

// SetInput latches a shooter's controls for the next tick
func (e *Engine) SetInput(id string, fire, reload bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.shooters[id]
	if !ok {
		return ErrShooterNotFound
	}
	s.Input.Set(fire, reload)
	return nil
}

// Aim sets a shooter's view angles in radians
func (e *Engine) Aim(id string, yaw, pitch float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.shooters[id]
	if !ok {
		return ErrShooterNotFound
	}
	s.SetAim(yaw, pitch)
	return nil
}

// AimAt points a shooter at a world position
func (e *Engine) AimAt(id string, p weapon.Vec3) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.shooters[id]
	if !ok {
		return ErrShooterNotFound
	}
	s.AimAt(p)
	return nil
}

// AddTarget places a damageable target
func (e *Engine) AddTarget(opts TargetOptions) (TargetSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.world.TargetCount() >= e.limits.MaxTargets {
		return TargetSnapshot{}, fmt.Errorf("%d targets: %w", e.limits.MaxTargets, ErrLimitReached)
	}

	t := NewTarget(uuid.NewString(), opts)
	e.world.AddTarget(t)
	return t.ToSnapshot(), nil
}

// RemoveTarget deletes a target
func (e *Engine) RemoveTarget(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.world.RemoveTarget(id)
}

// GetTarget returns a target snapshot by ID
func (e *Engine) GetTarget(id string) (TargetSnapshot, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t := e.world.GetTarget(id)
	if t == nil {
		return TargetSnapshot{}, false
	}
	return t.ToSnapshot(), true
}

// AddObstacle places a ray-blocking box spanning corners a and b
func (e *Engine) AddObstacle(a, b weapon.Vec3) (ObstacleSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.world.ObstacleCount() >= e.limits.MaxObstacles {
		return ObstacleSnapshot{}, fmt.Errorf("%d obstacles: %w", e.limits.MaxObstacles, ErrLimitReached)
	}

	o := NewObstacle(uuid.NewString(), a, b)
	e.world.AddObstacle(o)
	return o.ToSnapshot(), nil
}

// GetState returns a freshly allocated copy of the arena state.
// Safe to hold and serialize for any length of time.
func (e *Engine) GetState() ArenaSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var snap ArenaSnapshot
	snap.Timestamp = time.Now()
	e.fillSnapshot(&snap)
	return snap
}

// GetSnapshot returns the latest immutable snapshot for lock-free rendering
// This is the preferred method for the render loop
func (e *Engine) GetSnapshot() *ArenaSnapshot {
	return e.snapshotPool.AcquireRead()
}

// ProduceSnapshot creates an immutable snapshot of the current arena state
// Called at the end of each tick
func (e *Engine) ProduceSnapshot() {
	snap := e.snapshotPool.AcquireWrite()
	e.fillSnapshot(snap)
	e.snapshotPool.PublishWrite()
}

func (e *Engine) fillSnapshot(snap *ArenaSnapshot) {
	snap.TickNumber = e.tickCount
	snap.Now = e.now
	snap.RNGSeed = e.rngSeed
	snap.TotalShots = e.stats.ShotsFired
	snap.TotalKills = int(e.stats.TargetsDestroyed)

	for _, s := range e.order {
		if len(snap.Shooters) >= e.limits.MaxShooters {
			break
		}
		snap.Shooters = append(snap.Shooters, s.ToSnapshot())
	}

	live := 0
	for _, t := range e.world.Targets() {
		if !t.Destroyed {
			live++
		}
		if len(snap.Targets) < e.limits.MaxTargets {
			snap.Targets = append(snap.Targets, t.ToSnapshot())
		}
	}

	for _, o := range e.world.Obstacles() {
		if len(snap.Obstacles) >= e.limits.MaxObstacles {
			break
		}
		snap.Obstacles = append(snap.Obstacles, o.ToSnapshot())
	}

	for i := range e.effects {
		if len(snap.Effects) >= e.limits.MaxEffects {
			break
		}
		snap.Effects = append(snap.Effects, e.effects[i].ToSnapshot(e.now))
	}

	snap.ShooterCount = len(e.order)
	snap.LiveTargets = live
}

// GetStats returns cumulative counters
func (e *Engine) GetStats() EngineStats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	cues := make(map[string]uint64, len(e.stats.Cues))
	for kind, n := range e.stats.Cues {
		cues[kind.String()] = n
	}

	live := 0
	for _, t := range e.world.Targets() {
		if !t.Destroyed {
			live++
		}
	}

	return EngineStats{
		Ticks:            e.tickCount,
		Now:              e.now,
		Shooters:         len(e.order),
		Targets:          e.world.TargetCount(),
		LiveTargets:      live,
		Obstacles:        e.world.ObstacleCount(),
		Effects:          len(e.effects),
		ShotsFired:       e.stats.ShotsFired,
		Hits:             e.stats.Hits,
		Misses:           e.stats.Misses,
		DamageApplied:    e.stats.DamageApplied,
		ReloadsStarted:   e.stats.ReloadsStarted,
		ReloadsFinished:  e.stats.ReloadsFinished,
		TargetsDestroyed: e.stats.TargetsDestroyed,
		ClockViolations:  e.stats.ClockViolations,
		EffectsDropped:   e.stats.EffectsDropped,
		Cues:             cues,
		LastTickMicros:   e.lastTickTook.Microseconds(),
		Grid:             e.world.GetGridStats(),
	}
}

// Now returns the simulated time in seconds
func (e *Engine) Now() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.now
}

// GetTickCount returns the number of ticks run
func (e *Engine) GetTickCount() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tickCount
}

// GetTickRate returns the configured ticks per second
func (e *Engine) GetTickRate() int {
	return e.tickRate
}

// SetCallbacks sets event callbacks
func (e *Engine) SetCallbacks(cb Callbacks) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.callbacks = cb
}

// SetAudio routes cue sounds to src and delivers one mixed frame per tick
// to sink. Either may be nil to disable audio.
func (e *Engine) SetAudio(src AudioSource, sink func(frame []byte)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.audio = src
	e.audioSink = sink
}

// GetArmory returns the presets this engine can equip
func (e *Engine) GetArmory() *Armory {
	return e.armory
}

// StartEventLog initializes the event logging system
func (e *Engine) StartEventLog(filePath string) error {
	return e.eventLog.Start(filePath)
}

// FlushEventLog writes queued events now instead of waiting for the
// writer's next batch
func (e *Engine) FlushEventLog() {
	e.eventLog.Flush()
}

// StopEventLog gracefully stops the event logging system
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

// GetEventLogStats returns event log statistics for monitoring
func (e *Engine) GetEventLogStats() EventLogStats {
	return e.eventLog.GetStats()
}

// GetLimits returns the current resource limits
func (e *Engine) GetLimits() config.ResourceLimits {
	return e.limits
}

// LeaderboardEntry is one shooter's ranking
type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	ShooterID   string  `json:"shooterId"`
	Name        string  `json:"name"`
	Kills       int     `json:"kills"`
	DamageDealt float64 `json:"damageDealt"`
	Accuracy    float64 `json:"accuracy"`
}

// GetLeaderboard returns the top n shooters by kills, then damage dealt,
// then name for a stable order. n <= 0 returns everyone.
func (e *Engine) GetLeaderboard(n int) []LeaderboardEntry {
	e.mu.RLock()
	ranked := make([]*Shooter, len(e.order))
	copy(ranked, e.order)
	entries := make([]LeaderboardEntry, 0, len(ranked))

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Kills != ranked[j].Kills {
			return ranked[i].Kills > ranked[j].Kills
		}
		if ranked[i].DamageDealt != ranked[j].DamageDealt {
			return ranked[i].DamageDealt > ranked[j].DamageDealt
		}
		return ranked[i].Name < ranked[j].Name
	})

	for i, s := range ranked {
		if n > 0 && i >= n {
			break
		}
		entries = append(entries, LeaderboardEntry{
			Rank:        i + 1,
			ShooterID:   s.ID,
			Name:        s.Name,
			Kills:       s.Kills,
			DamageDealt: s.DamageDealt,
			Accuracy:    s.Accuracy(),
		})
	}
	e.mu.RUnlock()

	return entries
}
