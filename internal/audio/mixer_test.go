package audio

import (
	"testing"
	"time"

	"hitscan-arena/internal/config"
	"hitscan-arena/internal/game"
	"hitscan-arena/internal/weapon"
)

var _ game.AudioSource = (*Mixer)(nil)

func newTestMixer(maxVoices int) *Mixer {
	cfg := config.DefaultAudio()
	cfg.Volume = 1
	return NewMixer(NewBank(44100), cfg, 60, maxVoices)
}

func silent(frame []byte) bool {
	for _, b := range frame {
		if b != 0 {
			return false
		}
	}
	return true
}

// TestNewBank tests the synthesised cue sounds
func TestNewBank(t *testing.T) {
	bank := NewBank(44100)

	if bank.Len() != len(tones) {
		t.Errorf("Expected %d sounds, got %d", len(tones), bank.Len())
	}
	if _, ok := bank.Get(weapon.CueMuzzleFlash); ok {
		t.Error("Muzzle flash should have no sound")
	}

	shot, ok := bank.Get(weapon.CueShotSound)
	if !ok {
		t.Fatal("Missing shot sound")
	}
	want := bank.Format().SampleRate.N(90 * time.Millisecond)
	if shot.Len() != want {
		t.Errorf("Expected %d shot samples, got %d", want, shot.Len())
	}
}

// TestBankLoadDir tests OGG override lookup
func TestBankLoadDir(t *testing.T) {
	bank := NewBank(22050)

	if n, err := bank.LoadDir(""); n != 0 || err != nil {
		t.Errorf("Empty dir should be a no-op, got %d, %v", n, err)
	}
	if _, err := bank.LoadDir("/nonexistent/sounds"); err == nil {
		t.Error("Missing dir should return an error")
	}
	if n, err := bank.LoadDir(t.TempDir()); n != 0 || err != nil {
		t.Errorf("Dir without cue files should load nothing, got %d, %v", n, err)
	}
	if err := bank.LoadFile(weapon.CueShotSound, "/nonexistent/shot.ogg"); err == nil {
		t.Error("Missing file should return an error")
	}
	if bank.Len() != len(tones) {
		t.Error("Failed loads should keep the built-in sounds")
	}
}

// TestMixerFrameSize tests the per-tick frame length
func TestMixerFrameSize(t *testing.T) {
	m := newTestMixer(8)

	// 44100 / 60 = 735 stereo samples * 4 bytes
	if m.FrameBytes() != 2940 {
		t.Errorf("Expected 2940 bytes per frame, got %d", m.FrameBytes())
	}

	frame := m.GenerateFrame()
	if len(frame) != 2940 {
		t.Errorf("Expected frame of 2940 bytes, got %d", len(frame))
	}
	if !silent(frame) {
		t.Error("Idle mixer should output silence")
	}
}

// TestMixerPlay tests that a cue plays to completion
func TestMixerPlay(t *testing.T) {
	m := newTestMixer(8)

	m.Play(weapon.CueShotSound)
	if m.ActiveVoices() != 1 {
		t.Fatalf("Expected 1 voice, got %d", m.ActiveVoices())
	}

	if silent(m.GenerateFrame()) {
		t.Error("Shot should be audible in the first frame")
	}

	// 90ms shot spans ~5.4 frames at 60Hz
	for i := 0; i < 6; i++ {
		m.GenerateFrame()
	}
	if m.ActiveVoices() != 0 {
		t.Errorf("Shot should have finished, %d voices left", m.ActiveVoices())
	}
	if !silent(m.GenerateFrame()) {
		t.Error("Expected silence after the shot ends")
	}

	stats := m.GetStats()
	if stats.Played["shot_sound"] != 1 || stats.Frames != 8 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

// TestMixerIgnoresSilentCues tests cues without a sound
func TestMixerIgnoresSilentCues(t *testing.T) {
	m := newTestMixer(8)

	m.Play(weapon.CueMuzzleFlash)
	if m.ActiveVoices() != 0 {
		t.Error("Muzzle flash should not start a voice")
	}
	if len(m.GetStats().Played) != 0 {
		t.Error("Ignored cues should not be counted")
	}
}

// TestMixerVoiceCap tests that the oldest voice is cut
func TestMixerVoiceCap(t *testing.T) {
	m := newTestMixer(2)

	m.Play(weapon.CueReloadSound)
	m.Play(weapon.CueShotSound)
	m.Play(weapon.CueEmpty)

	if m.ActiveVoices() != 2 {
		t.Errorf("Expected 2 voices, got %d", m.ActiveVoices())
	}
	if m.GetStats().Dropped != 1 {
		t.Errorf("Expected 1 dropped voice, got %d", m.GetStats().Dropped)
	}
}

// TestMixerDisabled tests the enable switch and volume
func TestMixerDisabled(t *testing.T) {
	m := newTestMixer(8)
	m.SetEnabled(false)
	m.Play(weapon.CueShotSound)
	if m.ActiveVoices() != 0 {
		t.Error("Disabled mixer should ignore cues")
	}

	m.SetEnabled(true)
	m.SetVolume(0)
	m.Play(weapon.CueShotSound)
	if !silent(m.GenerateFrame()) {
		t.Error("Zero volume should output silence")
	}

	m.SetVolume(7)
	if m.volume != 1 {
		t.Errorf("Volume should clamp to 1, got %v", m.volume)
	}
}

// TestFloatToInt16 tests soft clipping
func TestFloatToInt16(t *testing.T) {
	tests := []struct {
		in   float64
		want int16
	}{
		{0, 0},
		{0.5, 16383},
		{-0.5, -16383},
		{1, 30691},
		{-1, -30691},
		{4, 32767},
		{-4, -32768},
	}

	for _, tt := range tests {
		if got := floatToInt16(tt.in); got != tt.want {
			t.Errorf("floatToInt16(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
