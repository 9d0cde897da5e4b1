package avepace

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// player buffer size of 40ms should be ok on desktops. 70ms should be
// ok on wasm/web. for microcontrollers, you might have to experiment.
const defaultAudioBufferSize time.Duration = 200 * time.Millisecond

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the playback settings shared by the controller and the
// audio engine. Use [DefaultConfig]() or [LoadConfig]() to get a usable
// value; the zero value has no audio configuration.
type Config struct {
	// Upper bound of decoder reads per tick when catching up. 0 means
	// unlimited, which keeps video in sync with audio even after long
	// stalls, at the cost of a long blocking tick.
	MaxCatchUpFrames int `yaml:"max_catch_up_frames"`

	// Initial volume, as a percentage in [0, 100].
	Volume float64 `yaml:"volume"`

	Audio AudioConfig `yaml:"audio"`
}

// AudioConfig is the fixed configuration the audio engine is initialized
// with. It can't change after initialization.
type AudioConfig struct {
	// Output sample rate. 0 means "use the sample rate of the media",
	// which hosts can probe before initializing the engine.
	SampleRate int `yaml:"sample_rate"`

	// Output channel count. Only stereo is supported.
	Channels int `yaml:"channels"`

	// Maximum number of simultaneously alive audio players. Must be
	// positive. Engines that play a single track at a time never reach it.
	ChannelLimit int `yaml:"channel_limit"`

	// Audio player buffer size.
	BufferSize time.Duration `yaml:"buffer_size"`
}

// DefaultConfig returns 44.1kHz stereo output with a 64 channel limit,
// unlimited catch-up and full volume.
func DefaultConfig() Config {
	return Config{
		MaxCatchUpFrames: 0,
		Volume:           100,
		Audio: AudioConfig{
			SampleRate:   44100,
			Channels:     2,
			ChannelLimit: 64,
			BufferSize:   defaultAudioBufferSize,
		},
	}
}

// LoadConfig reads a YAML configuration file on top of [DefaultConfig]().
// Fields missing from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting, wrapped in [ErrInvalidConfig].
func (c Config) Validate() error {
	if c.MaxCatchUpFrames < 0 {
		return fmt.Errorf("%w: max_catch_up_frames must be >= 0 (got %d)", ErrInvalidConfig, c.MaxCatchUpFrames)
	}
	if c.Volume < 0 || c.Volume > 100 {
		return fmt.Errorf("%w: volume must be in [0, 100] (got %v)", ErrInvalidConfig, c.Volume)
	}
	return c.Audio.Validate()
}

// Validate reports the first invalid audio setting, wrapped in [ErrInvalidConfig].
func (c AudioConfig) Validate() error {
	if c.SampleRate < 0 {
		return fmt.Errorf("%w: audio sample_rate must be >= 0 (got %d)", ErrInvalidConfig, c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("%w: audio channels must be > 0 (got %d)", ErrInvalidConfig, c.Channels)
	}
	if c.ChannelLimit <= 0 {
		return fmt.Errorf("%w: audio channel_limit must be > 0 (got %d)", ErrInvalidConfig, c.ChannelLimit)
	}
	if c.BufferSize < 0 {
		return fmt.Errorf("%w: audio buffer_size must be >= 0 (got %s)", ErrInvalidConfig, c.BufferSize)
	}
	return nil
}
