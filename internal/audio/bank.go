// Package audio turns weapon cues into PCM.
//
// A Bank holds one decoded beep.Buffer per cue kind. Sounds are synthesised
// at startup and can be replaced by OGG files from a sounds directory.
// The Mixer plays cues from the bank and renders one frame per engine tick.
package audio

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/vorbis"

	"hitscan-arena/internal/weapon"
)

// resampleQuality is passed to beep.Resample for OGG overrides
const resampleQuality = 4

// tone describes a synthesised cue sound
type tone struct {
	freq     float64       // Base frequency in Hz, 0 for pure noise
	sweep    float64       // Frequency change over the whole sound, in Hz
	noise    float64       // Noise mix 0..1
	gain     float64       // Peak amplitude 0..1
	duration time.Duration // Total length
	pulses   int           // Number of evenly spaced bursts (clicks)
}

// tones are the built-in cue sounds. Muzzle flash is visual only.
var tones = map[weapon.CueKind]tone{
	weapon.CueShotSound:    {freq: 140, sweep: -80, noise: 0.7, gain: 0.9, duration: 90 * time.Millisecond, pulses: 1},
	weapon.CueReloadStart:  {freq: 1200, noise: 0.2, gain: 0.5, duration: 30 * time.Millisecond, pulses: 1},
	weapon.CueReloadSound:  {freq: 300, sweep: 500, noise: 0.3, gain: 0.35, duration: 400 * time.Millisecond, pulses: 1},
	weapon.CueReloadFinish: {freq: 900, noise: 0.2, gain: 0.5, duration: 80 * time.Millisecond, pulses: 2},
	weapon.CueImpactEffect: {freq: 180, sweep: -60, noise: 0.5, gain: 0.6, duration: 60 * time.Millisecond, pulses: 1},
	weapon.CueEmpty:        {freq: 2000, noise: 0.1, gain: 0.4, duration: 20 * time.Millisecond, pulses: 1},
}

// Bank holds decoded cue sounds at a single sample rate
type Bank struct {
	format beep.Format
	sounds map[weapon.CueKind]*beep.Buffer
}

// NewBank synthesises the built-in cue sounds at sampleRate
func NewBank(sampleRate int) *Bank {
	b := &Bank{
		format: beep.Format{
			SampleRate:  beep.SampleRate(sampleRate),
			NumChannels: 2,
			Precision:   2,
		},
		sounds: make(map[weapon.CueKind]*beep.Buffer, len(tones)),
	}

	for kind, t := range tones {
		buf := beep.NewBuffer(b.format)
		n := b.format.SampleRate.N(t.duration)
		buf.Append(beep.Take(n, synth(t, float64(sampleRate), n, int64(kind))))
		b.sounds[kind] = buf
	}

	return b
}

// LoadDir replaces built-in sounds with <dir>/<cue>.ogg files where present.
// Missing files are skipped. Returns the number of sounds loaded.
func (b *Bank) LoadDir(dir string) (int, error) {
	if dir == "" {
		return 0, nil
	}
	if _, err := os.Stat(dir); err != nil {
		return 0, fmt.Errorf("sounds dir: %w", err)
	}

	loaded := 0
	for kind := range tones {
		path := filepath.Join(dir, kind.String()+".ogg")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := b.LoadFile(kind, path); err != nil {
			log.Printf("⚠️ Failed to load %s: %v", path, err)
			continue
		}
		loaded++
	}

	return loaded, nil
}

// LoadFile decodes an OGG Vorbis file into the bank for kind, resampling
// it to the bank's rate when needed
func (b *Bank) LoadFile(kind weapon.CueKind, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}

	streamer, format, err := vorbis.Decode(file)
	if err != nil {
		file.Close()
		return err
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if format.SampleRate != b.format.SampleRate {
		src = beep.Resample(resampleQuality, format.SampleRate, b.format.SampleRate, streamer)
	}

	buf := beep.NewBuffer(b.format)
	buf.Append(src)
	if buf.Len() == 0 {
		return fmt.Errorf("%s: no samples decoded", path)
	}

	b.sounds[kind] = buf
	log.Printf("🔊 Loaded %s cue from %s (%d Hz)", kind, path, format.SampleRate)
	return nil
}

// Get returns the sound for kind
func (b *Bank) Get(kind weapon.CueKind) (*beep.Buffer, bool) {
	buf, ok := b.sounds[kind]
	return buf, ok
}

// Format returns the bank's sample format
func (b *Bank) Format() beep.Format {
	return b.format
}

// Len returns the number of cue kinds with a sound
func (b *Bank) Len() int {
	return len(b.sounds)
}

// synth returns a streamer for n samples of t. Noise is seeded so the
// same cue always sounds the same.
func synth(t tone, sampleRate float64, n int, seed int64) beep.Streamer {
	rng := rand.New(rand.NewSource(seed))
	pulses := max(t.pulses, 1)
	pulseLen := max(n/pulses, 1)
	phase := 0.0
	pos := 0

	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= n {
			return 0, false
		}
		count := min(len(samples), n-pos)

		for i := 0; i < count; i++ {
			progress := float64(pos) / float64(n)
			freq := t.freq + t.sweep*progress
			phase += 2 * math.Pi * freq / sampleRate

			// Each pulse decays exponentially from its own start
			local := float64(pos%pulseLen) / float64(pulseLen)
			env := math.Exp(-5 * local)

			v := (1-t.noise)*math.Sin(phase) + t.noise*(rng.Float64()*2-1)
			v *= t.gain * env

			samples[i][0] = v
			samples[i][1] = v
			pos++
		}

		return count, true
	})
}
