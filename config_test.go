package avepace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "avepace.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	if cfg.Audio.SampleRate != 44100 || cfg.Audio.Channels != 2 || cfg.Audio.ChannelLimit != 64 {
		t.Errorf("unexpected audio defaults: %+v", cfg.Audio)
	}
	if cfg.Audio.BufferSize != 200*time.Millisecond {
		t.Errorf("unexpected buffer size: %s", cfg.Audio.BufferSize)
	}
	if cfg.Volume != 100 || cfg.MaxCatchUpFrames != 0 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
max_catch_up_frames: 12
volume: 60
audio:
  sample_rate: 48000
  buffer_size: 70ms
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.MaxCatchUpFrames != 12 || cfg.Volume != 60 {
		t.Errorf("unexpected playback settings: %+v", cfg)
	}
	if cfg.Audio.SampleRate != 48000 || cfg.Audio.BufferSize != 70*time.Millisecond {
		t.Errorf("unexpected audio settings: %+v", cfg.Audio)
	}
	if cfg.Audio.Channels != 2 || cfg.Audio.ChannelLimit != 64 {
		t.Errorf("missing fields should keep defaults: %+v", cfg.Audio)
	}
}

func TestLoadConfigProbeSampleRate(t *testing.T) {
	path := writeConfig(t, "audio:\n  sample_rate: 0\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Audio.SampleRate != 0 {
		t.Errorf("expected sample rate 0, got %d", cfg.Audio.SampleRate)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"negative catch-up": "max_catch_up_frames: -1\n",
		"volume too high":   "volume: 101\n",
		"negative rate":     "audio:\n  sample_rate: -44100\n",
		"no channels":       "audio:\n  channels: 0\n",
		"no channel limit":  "audio:\n  channel_limit: 0\n",
		"negative buffer":   "audio:\n  buffer_size: -5ms\n",
		"malformed yaml":    "volume: [1, 2\n",
	}
	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, contents))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}
