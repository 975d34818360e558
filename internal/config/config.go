package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/wavedeck/internal/engine"
	"github.com/llehouerou/wavedeck/internal/playback"
)

type Config struct {
	Engine   EngineConfig   `koanf:"engine"`
	Playback PlaybackConfig `koanf:"playback"`
	Session  SessionConfig  `koanf:"session"`
	State    StateConfig    `koanf:"state"`
	Log      LogConfig      `koanf:"log"`
	MPRIS    MPRISConfig    `koanf:"mpris"`
	Notify   NotifyConfig   `koanf:"notify"`
}

// EngineConfig tunes the native decode engine.
type EngineConfig struct {
	FileCachingMS      int  `koanf:"file_caching_ms" default:"300" validate:"gte=0,lte=60000"`
	NetworkCachingMS   int  `koanf:"network_caching_ms" default:"1000" validate:"gte=0,lte=60000"`
	SampleRate         int  `koanf:"sample_rate" default:"44100" validate:"oneof=22050 32000 44100 48000 88200 96000"`
	HardwareDecode     bool `koanf:"hardware_decode"`
	SubtitleAutodetect bool `koanf:"subtitle_autodetect"`
}

// PlaybackConfig holds queue and engine service timings.
type PlaybackConfig struct {
	PollIntervalMS   int    `koanf:"poll_interval_ms" default:"250" validate:"gte=10,lte=10000"`
	PreloadBufferMS  int    `koanf:"preload_buffer_ms" default:"1500" validate:"gte=0,lte=30000"`
	RestoreTimeoutMS int    `koanf:"restore_timeout_ms" default:"2000" validate:"gte=100,lte=60000"`
	VolumeDebounceMS int    `koanf:"volume_debounce_ms" default:"500" validate:"gte=0,lte=10000"`
	Repeat           string `koanf:"repeat" default:"all" validate:"oneof=all one"`
}

// SessionConfig locates the session file. Empty means the XDG data dir.
type SessionConfig struct {
	File string `koanf:"file"`
}

// StateConfig locates the SQLite database. Empty means the XDG data dir.
type StateConfig struct {
	DBFile string `koanf:"db_file"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level      string `koanf:"level" default:"info" validate:"oneof=trace debug info warn error"`
	Output     string `koanf:"output" default:"file" validate:"oneof=stdout stderr file"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb" default:"10" validate:"gte=1,lte=1024"`
	MaxBackups int    `koanf:"max_backups" default:"3" validate:"gte=0,lte=100"`
}

// MPRISConfig toggles the D-Bus media player interface.
type MPRISConfig struct {
	Enabled bool `koanf:"enabled" default:"true"`
}

// NotifyConfig toggles desktop notifications on track changes.
type NotifyConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Load reads the default config files. Missing files are skipped.
func Load() (*Config, error) {
	return LoadFiles(getConfigPaths()...)
}

// LoadFiles reads paths in order, later files overriding earlier ones.
// Missing files are skipped.
func LoadFiles(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "load %s", path)
			}
		}
	}

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.Wrap(err, "set defaults")
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	cfg.Session.File = expandPath(cfg.Session.File)
	cfg.State.DBFile = expandPath(cfg.State.DBFile)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

// getConfigPaths lists the files Load reads, lowest priority first: the
// XDG config file, then config.toml in the working directory.
func getConfigPaths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, "wavedeck", "config.toml"),
		"config.toml",
	}
}

// expandPath replaces a leading "~" or "~/" with the home directory.
// "~user" forms are left alone.
func expandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// EngineOptions converts the engine section to engine.Options.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		HardwareDecode:     c.Engine.HardwareDecode,
		FileCaching:        ms(c.Engine.FileCachingMS),
		NetworkCaching:     ms(c.Engine.NetworkCachingMS),
		SubtitleAutodetect: c.Engine.SubtitleAutodetect,
		SampleRate:         c.Engine.SampleRate,
	}
}

// RepeatMode returns the configured initial repeat mode.
func (c *Config) RepeatMode() playback.RepeatMode {
	m, err := playback.ParseRepeatMode(c.Playback.Repeat)
	if err != nil {
		return playback.RepeatAll
	}
	return m
}

// PollInterval returns the position polling period.
func (c *Config) PollInterval() time.Duration { return ms(c.Playback.PollIntervalMS) }

// PreloadBuffer returns how long the next track is pre-buffered.
func (c *Config) PreloadBuffer() time.Duration { return ms(c.Playback.PreloadBufferMS) }

// RestoreTimeout returns how long a session restore waits for playback.
func (c *Config) RestoreTimeout() time.Duration { return ms(c.Playback.RestoreTimeoutMS) }

// VolumeDebounce returns the volume persistence delay.
func (c *Config) VolumeDebounce() time.Duration { return ms(c.Playback.VolumeDebounceMS) }

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
