// Package ebitenaudio implements [avepace.AudioEngine] with Ebitengine's
// audio package.
package ebitenaudio

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/erparts/go-avepace"
	"github.com/erparts/go-avepace/reisendec"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

var (
	ErrAlreadyInitialized  = errors.New("audio engine already initialized")
	ErrEngineClosed        = errors.New("audio engine was torn down")
	ErrNoSampleRate        = errors.New("audio engine needs an explicit sample rate")
	ErrBadSampleRate       = errors.New("audio sample rates don't match")
	ErrUnsupportedChannels = errors.New("only stereo audio output is supported")
)

var _ avepace.AudioEngine = (*Engine)(nil)

var pkgLogger avepace.Logger = log.Default()

// SetLogger sets the logger used by the package for non-fatal warnings.
func SetLogger(logger avepace.Logger) {
	pkgLogger = logger
}

// the engine wraps ebitengine's audio context, which can only be
// created once per process
var current *Engine

// Engine plays one audio track at a time, typically the soundtrack of
// the video being played by an [avepace.Controller]. Since the previous
// track is always closed before the next one starts, the configured
// ChannelLimit is validated but never reached.
//
// There's a single engine per process. Create it with [Init]() at startup
// and release it with [Engine.Teardown]().
type Engine struct {
	context *audio.Context
	config  avepace.AudioConfig
	gain    float64
	closed  bool

	player *audio.Player
	source io.Closer
}

// Init creates the process-wide audio engine. Ebitengine's audio context
// is created with the configured sample rate, or adopted if it already
// exists with the same rate.
//
// Init fails with [ErrAlreadyInitialized] if an engine is already alive.
func Init(config avepace.AudioConfig) (*Engine, error) {
	if current != nil {
		return nil, ErrAlreadyInitialized
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.SampleRate == 0 {
		return nil, ErrNoSampleRate
	}
	if config.Channels != 2 {
		return nil, fmt.Errorf("%w (got %d channels)", ErrUnsupportedChannels, config.Channels)
	}

	context := audio.CurrentContext()
	if context == nil {
		context = audio.NewContext(config.SampleRate)
	} else if context.SampleRate() != config.SampleRate {
		pkgLogger.Printf("WARNING: context sample rate = %d, requested sample rate = %d", context.SampleRate(), config.SampleRate)
		return nil, ErrBadSampleRate
	}

	current = &Engine{
		context: context,
		config:  config,
		gain:    1.0,
	}
	return current, nil
}

// Returns the engine created by [Init](), or nil if there's none.
func Current() *Engine { return current }

// Teardown stops any playing audio and makes the engine unusable. A new
// engine can be created afterwards with [Init]() (using the same sample
// rate, since ebitengine's context outlives the engine).
func (e *Engine) Teardown() {
	if e.closed {
		return
	}
	if err := e.Stop(); err != nil {
		pkgLogger.Printf("WARNING: failed to stop audio on teardown: %s", err)
	}
	e.closed = true
	if current == e {
		current = nil
	}
}

// Returns the configuration the engine was initialized with.
func (e *Engine) Config() avepace.AudioConfig { return e.config }

// LoadAndPlay starts playing the given file from the beginning, replacing
// the current track. MP3, Ogg Vorbis and WAV files are decoded natively;
// anything else is decoded with libav through reisen, so the audio track
// of a video container can be played directly.
func (e *Engine) LoadAndPlay(path string) error {
	if e.closed {
		return ErrEngineClosed
	}
	if err := e.Stop(); err != nil {
		pkgLogger.Printf("WARNING: failed to stop previous audio: %s", err)
	}

	stream, source, err := e.open(path)
	if err != nil {
		return err
	}
	player, err := e.context.NewPlayer(stream)
	if err != nil {
		_ = source.Close()
		return err
	}
	if e.config.BufferSize > 0 {
		player.SetBufferSize(e.config.BufferSize)
	}
	player.SetVolume(e.gain)
	player.Play()

	e.player = player
	e.source = source
	return nil
}

// Stop halts the current track and releases it. Safe to call when nothing
// is playing.
func (e *Engine) Stop() error {
	if e.player == nil {
		return nil
	}
	player, source := e.player, e.source
	e.player, e.source = nil, nil

	player.Pause()
	playerErr := player.Close()
	return errors.Join(playerErr, source.Close())
}

// Pauses the current track, if any.
func (e *Engine) Pause() {
	if e.player != nil {
		e.player.Pause()
	}
}

// Resumes the current track, if any.
func (e *Engine) Unpause() {
	if e.player != nil {
		e.player.Play()
	}
}

// SetVolume sets the volume as a percentage. See [avepace.PercentToGain].
// The volume also applies to tracks loaded later.
func (e *Engine) SetVolume(percent float64) {
	e.gain = avepace.PercentToGain(percent)
	if e.player != nil {
		e.player.SetVolume(e.gain)
	}
}

// Returns the volume as a percentage.
func (e *Engine) Volume() float64 { return e.gain * 100 }

// Returns whether a track is loaded and currently playing.
func (e *Engine) IsPlaying() bool {
	return e.player != nil && e.player.IsPlaying()
}

// --- internal ---

// returns the decoded stream and the closer that owns the file
func (e *Engine) open(path string) (io.Reader, io.Closer, error) {
	sampleRate := e.context.SampleRate()
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp3", ".ogg", ".oga", ".wav":
		file, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}

		var stream io.Reader
		switch ext {
		case ".mp3":
			stream, err = mp3.DecodeWithSampleRate(sampleRate, file)
		case ".wav":
			stream, err = wav.DecodeWithSampleRate(sampleRate, file)
		default:
			stream, err = vorbis.DecodeWithSampleRate(sampleRate, file)
		}
		if err != nil {
			_ = file.Close()
			return nil, nil, fmt.Errorf("decoding '%s': %w", filepath.Base(path), err)
		}
		return stream, file, nil
	default:
		reader, err := reisendec.OpenAudio(path)
		if err != nil {
			return nil, nil, err
		}
		if reader.SampleRate() != sampleRate {
			_ = reader.Close()
			pkgLogger.Printf("WARNING: context sample rate = %d, '%s' sample rate = %d", sampleRate, filepath.Base(path), reader.SampleRate())
			return nil, nil, ErrBadSampleRate
		}
		return reader, reader, nil
	}
}
