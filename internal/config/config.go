package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	ProjectFileName = ".cmt.toml"
	userFileName    = "config.toml"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Colors are the accents used for the inline action menu and the regions.
type Colors struct {
	Current     string `toml:"current"`
	Incoming    string `toml:"incoming"`
	Both        string `toml:"both"`
	Highlighted string `toml:"highlighted"`
}

type Settings struct {
	// LiveMatching rebuilds the conflict index whenever the document is
	// loaded, activated, saved or modified.
	LiveMatching bool `toml:"live_matching"`

	// ShowOnlyFilenames lists conflicted files by base name instead of path.
	ShowOnlyFilenames bool `toml:"show_only_filenames"`

	GitBinary string `toml:"git_binary"`
	LogLevel  string `toml:"log_level"`
	Colors    Colors `toml:"colors"`

	// Source is the file the settings were read from, if any.
	Source string `toml:"-"`
}

func Default() Settings {
	return Settings{
		LiveMatching:      true,
		ShowOnlyFilenames: false,
		GitBinary:         "git",
		LogLevel:          "warn",
		Colors: Colors{
			Current:     "#9aa83a",
			Incoming:    "#6089b4",
			Both:        "#9a9b99",
			Highlighted: "#c4480a",
		},
	}
}

// Load builds settings from defaults, the nearest .cmt.toml at or above
// startDir (or the user config file when there is none), and CMT_*
// environment overrides, in that order.
func Load(startDir string) (Settings, error) {
	cfg := Default()

	path, err := findFile(startDir)
	if err != nil {
		return Settings{}, err
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Settings{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		cfg.Source = path
	}

	cfg.LiveMatching = envBool("CMT_LIVE_MATCHING", cfg.LiveMatching)
	cfg.ShowOnlyFilenames = envBool("CMT_SHOW_ONLY_FILENAMES", cfg.ShowOnlyFilenames)
	cfg.GitBinary = envOr("CMT_GIT_BINARY", cfg.GitBinary)
	cfg.LogLevel = envOr("CMT_LOG_LEVEL", cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

func (s Settings) Validate() error {
	if strings.TrimSpace(s.GitBinary) == "" {
		return errors.New("git_binary must not be empty")
	}
	if _, err := ParseLevel(s.LogLevel); err != nil {
		return err
	}
	for name, c := range map[string]string{
		"current":     s.Colors.Current,
		"incoming":    s.Colors.Incoming,
		"both":        s.Colors.Both,
		"highlighted": s.Colors.Highlighted,
	} {
		if !hexColor.MatchString(c) {
			return fmt.Errorf("colors.%s: %q is not a #rrggbb colour", name, c)
		}
	}
	return nil
}

// ParseLevel maps a level name onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", s, err)
	}
	return level, nil
}

// findFile walks up from startDir looking for a project file, falling back to
// the user config file. It returns "" when neither exists.
func findFile(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ProjectFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	userDir, err := os.UserConfigDir()
	if err != nil {
		return "", nil
	}
	candidate := filepath.Join(userDir, "cmt", userFileName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
