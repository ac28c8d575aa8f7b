package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/handiism/cleantags/internal/audio"
	ioutils "github.com/handiism/cleantags/internal/io"
	"github.com/handiism/cleantags/internal/scanner"
	"github.com/handiism/cleantags/internal/tags"
)

// LoggingSettings configures the logger.
type LoggingSettings struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // console, json
	File   string `toml:"file"`   // optional log file, in addition to stderr
}

// PlaylistSettings configures the playlist of affected files.
type PlaylistSettings struct {
	Format   string `toml:"format"` // m3u, pls
	Extended bool   `toml:"extended"`
}

// Settings holds all configuration options.
type Settings struct {
	// Scan settings
	DryRun     bool         `toml:"dry_run"`
	Extensions []string     `toml:"extensions"`
	Fields     []tags.Field `toml:"fields"`

	// CanonicalizeOrdinals attaches a summary with "N/M" track and disc
	// numbers reduced to N to every result.
	CanonicalizeOrdinals bool `toml:"canonicalize_ordinals"`

	// LockFile guards live runs against each other.
	LockFile string `toml:"lock_file"`

	Logging  LoggingSettings  `toml:"logging"`
	Playlist PlaylistSettings `toml:"playlist"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		DryRun:     true,
		Extensions: scanner.DefaultExtensions(),
		Fields:     tags.DefaultFields(),
		LockFile:   filepath.Join(defaultDir(), "cleantags.lock"),
		Logging: LoggingSettings{
			Level:  "info",
			Format: "console",
		},
		Playlist: PlaylistSettings{
			Format:   "m3u",
			Extended: true,
		},
	}
}

// DefaultPath returns the default location of the settings file.
func DefaultPath() string {
	return filepath.Join(defaultDir(), "config.toml")
}

func defaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "cleantags")
	}
	return filepath.Join(homeDir, ".config", "cleantags")
}

// Load reads settings from a TOML file. A missing file yields the
// defaults. Keys absent from the file keep their default values.
func Load(path string) (*Settings, error) {
	if path == "" {
		path = DefaultPath()
	}
	path, err := expandPath(path)
	if err != nil {
		return nil, err
	}

	settings := DefaultSettings()

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	// A [[fields]] table in the file replaces the default list.
	settings.Fields = nil
	if err := toml.NewDecoder(file).Decode(settings); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if settings.Fields == nil {
		settings.Fields = tags.DefaultFields()
	}

	if err := settings.normalize(); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save writes settings to a TOML file, creating parent directories.
func (s *Settings) Save(path string) error {
	path, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return ioutils.WriteFile(context.Background(), path, data)
}

// Validate reports the first invalid setting.
func (s *Settings) Validate() error {
	if len(s.Extensions) == 0 {
		return errors.New("extensions: at least one extension is required")
	}
	for _, ext := range s.Extensions {
		if strings.TrimSpace(strings.TrimPrefix(ext, ".")) == "" {
			return errors.New("extensions: empty extension")
		}
	}

	if len(s.Fields) == 0 {
		return errors.New("fields: at least one field is required")
	}
	for i, field := range s.Fields {
		if len(field.Aliases()) == 0 {
			return fmt.Errorf("fields[%d]: name or frame is required", i)
		}
		if field.Frame != "" && len(field.Frame) != 4 {
			return fmt.Errorf("fields[%d]: frame %q is not a four character ID3v2 frame ID", i, field.Frame)
		}
	}

	switch s.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", s.Logging.Format)
	}
	switch s.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", s.Logging.Level)
	}

	if _, err := audio.ParsePlaylistFormat(s.Playlist.Format); err != nil {
		return fmt.Errorf("playlist.format: %w", err)
	}

	if s.LockFile == "" {
		return errors.New("lock_file: path is required")
	}
	return nil
}

// ToTagConfig converts settings to a TagConfig.
func (s *Settings) ToTagConfig() *audio.TagConfig {
	fields := make([]tags.Field, len(s.Fields))
	copy(fields, s.Fields)
	return &audio.TagConfig{
		DryRun:    s.DryRun,
		Fields:    fields,
		Summaries: s.CanonicalizeOrdinals,
	}
}

// PlaylistCreator builds the playlist creator described by the settings.
func (s *Settings) PlaylistCreator() (*audio.PlaylistCreator, error) {
	format, err := audio.ParsePlaylistFormat(s.Playlist.Format)
	if err != nil {
		return nil, err
	}
	return audio.NewPlaylistCreator(format, s.Playlist.Extended), nil
}

func (s *Settings) normalize() error {
	s.Logging.Level = strings.ToLower(strings.TrimSpace(s.Logging.Level))
	if s.Logging.Level == "" {
		s.Logging.Level = "info"
	}
	s.Logging.Format = strings.ToLower(strings.TrimSpace(s.Logging.Format))
	if s.Logging.Format == "" {
		s.Logging.Format = "console"
	}

	for i, field := range s.Fields {
		s.Fields[i].Name = strings.TrimSpace(field.Name)
		s.Fields[i].Frame = strings.ToUpper(strings.TrimSpace(field.Frame))
	}

	var err error
	if s.LockFile, err = expandPath(s.LockFile); err != nil {
		return err
	}
	if s.Logging.File, err = expandPath(s.Logging.File); err != nil {
		return err
	}
	return nil
}

func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %s: %w", path, err)
		}
		path = filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(path), nil
}
