package audio

import (
	"encoding/binary"
	"sync"

	"github.com/gopxl/beep"

	"hitscan-arena/internal/config"
	"hitscan-arena/internal/weapon"
)

// Mixer plays cue sounds and renders one s16le stereo frame per tick.
// Play and GenerateFrame may be called from different goroutines.
type Mixer struct {
	mu sync.Mutex

	bank            *Bank
	enabled         bool
	volume          float64
	maxVoices       int
	samplesPerFrame int
	bytesPerFrame   int

	voices []*voice

	// Pre-allocated per-frame buffers
	mix  [][2]float64
	work [][2]float64

	// Stats
	played  map[weapon.CueKind]uint64
	dropped uint64
	frames  uint64
}

type voice struct {
	kind     weapon.CueKind
	streamer beep.Streamer
}

// MixerStats is a point-in-time view of the mixer
type MixerStats struct {
	Played       map[string]uint64 `json:"played"`
	Dropped      uint64            `json:"dropped"`
	Frames       uint64            `json:"frames"`
	ActiveVoices int               `json:"activeVoices"`
	FrameBytes   int               `json:"frameBytes"`
}

// NewMixer creates a mixer reading from bank. tickRate sets the frame
// length: sampleRate/tickRate samples per frame.
func NewMixer(bank *Bank, cfg config.AudioConfig, tickRate, maxVoices int) *Mixer {
	if tickRate <= 0 {
		tickRate = 60
	}
	if maxVoices <= 0 {
		maxVoices = 8
	}

	samples := int(bank.Format().SampleRate) / tickRate
	return &Mixer{
		bank:            bank,
		enabled:         cfg.Enabled,
		volume:          clampVolume(cfg.Volume),
		maxVoices:       maxVoices,
		samplesPerFrame: samples,
		bytesPerFrame:   samples * 2 * 2,
		voices:          make([]*voice, 0, maxVoices),
		mix:             make([][2]float64, samples),
		work:            make([][2]float64, samples),
		played:          make(map[weapon.CueKind]uint64),
	}
}

// Play starts the sound for kind. Cues without a sound are ignored.
// When all voices are busy the oldest one is cut.
func (m *Mixer) Play(kind weapon.CueKind) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.enabled {
		return
	}
	buf, ok := m.bank.Get(kind)
	if !ok {
		return
	}

	m.played[kind]++
	m.voices = append(m.voices, &voice{
		kind:     kind,
		streamer: buf.Streamer(0, buf.Len()),
	})

	if len(m.voices) > m.maxVoices {
		m.voices = m.voices[1:]
		m.dropped++
	}
}

// GenerateFrame renders the next frame of mixed audio.
// Silence is returned when nothing is playing.
func (m *Mixer) GenerateFrame() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.mix {
		m.mix[i] = [2]float64{}
	}

	alive := m.voices[:0]
	for _, v := range m.voices {
		n, ok := v.streamer.Stream(m.work)
		for i := 0; i < n; i++ {
			m.mix[i][0] += m.work[i][0]
			m.mix[i][1] += m.work[i][1]
		}
		if ok && n == len(m.work) {
			alive = append(alive, v)
		}
	}
	for i := len(alive); i < len(m.voices); i++ {
		m.voices[i] = nil
	}
	m.voices = alive

	output := make([]byte, m.bytesPerFrame)
	for i, s := range m.mix {
		binary.LittleEndian.PutUint16(output[i*4:], uint16(floatToInt16(s[0]*m.volume)))
		binary.LittleEndian.PutUint16(output[i*4+2:], uint16(floatToInt16(s[1]*m.volume)))
	}

	m.frames++
	return output
}

// SetVolume adjusts the master volume (0.0 to 1.0)
func (m *Mixer) SetVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = clampVolume(v)
}

// SetEnabled toggles cue playback without touching frame generation
func (m *Mixer) SetEnabled(e bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = e
	if !e {
		m.voices = m.voices[:0]
	}
}

// FrameBytes returns the size of one generated frame
func (m *Mixer) FrameBytes() int {
	return m.bytesPerFrame
}

// ActiveVoices returns the number of sounds still playing
func (m *Mixer) ActiveVoices() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

// GetStats returns mixer statistics
func (m *Mixer) GetStats() MixerStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	played := make(map[string]uint64, len(m.played))
	for k, n := range m.played {
		played[k.String()] = n
	}
	return MixerStats{
		Played:       played,
		Dropped:      m.dropped,
		Frames:       m.frames,
		ActiveVoices: len(m.voices),
		FrameBytes:   m.bytesPerFrame,
	}
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// floatToInt16 converts a -1.0..1.0 sample to int16 with soft clipping
// above ±30000 so overlapping cues don't distort harshly
func floatToInt16(sample float64) int16 {
	scaled := sample * 32767.0

	if scaled > 30000 {
		scaled = 30000 + (scaled-30000)/4
	} else if scaled < -30000 {
		scaled = -30000 + (scaled+30000)/4
	}

	if scaled > 32767 {
		scaled = 32767
	} else if scaled < -32768 {
		scaled = -32768
	}

	return int16(scaled)
}
