package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DBPath               string `yaml:"db_path"`
	LedgerPath           string `yaml:"ledger_path"`
	LogPath              string `yaml:"log_path"`
	LogLevel             string `yaml:"log_level"`
	TickSeconds          int    `yaml:"tick_seconds"`
	ReminderGraceMins    int    `yaml:"reminder_grace_mins"`
	MissedGraceMins      int    `yaml:"missed_grace_mins"`
	DesktopNotifications bool   `yaml:"desktop_notifications"`
	EventBuffer          int    `yaml:"event_buffer"`
	FocusWorkMins        int    `yaml:"focus_work_mins"`
	FocusBreakMins       int    `yaml:"focus_break_mins"`
}

func Default() Config {
	dir := defaultDir()
	return Config{
		DBPath:               filepath.Join(dir, "duewatch.db"),
		LedgerPath:           filepath.Join(dir, "fired.json"),
		LogPath:              filepath.Join(dir, "duewatch.log"),
		LogLevel:             "info",
		TickSeconds:          10,
		ReminderGraceMins:    5,
		MissedGraceMins:      5,
		DesktopNotifications: false,
		EventBuffer:          64,
		FocusWorkMins:        25,
		FocusBreakMins:       5,
	}
}

func DefaultPath() string {
	return filepath.Join(defaultDir(), "config.yaml")
}

func defaultDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".duewatch"
	}
	return filepath.Join(base, "duewatch")
}

func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No file, defaults apply.
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v, ok := getEnvString("DUEWATCH_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("DUEWATCH_LEDGER_PATH"); ok {
		cfg.LedgerPath = v
	}
	if v, ok := getEnvString("DUEWATCH_LOG_PATH"); ok {
		cfg.LogPath = v
	}
	if v, ok := getEnvString("DUEWATCH_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvInt("DUEWATCH_TICK_SECONDS"); ok && v > 0 {
		cfg.TickSeconds = v
	}
	if v, ok := getEnvInt("DUEWATCH_REMINDER_GRACE_MINUTES"); ok && v >= 0 {
		cfg.ReminderGraceMins = v
	}
	if v, ok := getEnvInt("DUEWATCH_MISSED_GRACE_MINUTES"); ok && v >= 0 {
		cfg.MissedGraceMins = v
	}
	if v, ok := getEnvBool("DUEWATCH_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("DUEWATCH_EVENT_BUFFER"); ok && v > 0 {
		cfg.EventBuffer = v
	}
	if v, ok := getEnvInt("DUEWATCH_FOCUS_WORK_MINUTES"); ok && v > 0 {
		cfg.FocusWorkMins = v
	}
	if v, ok := getEnvInt("DUEWATCH_FOCUS_BREAK_MINUTES"); ok && v > 0 {
		cfg.FocusBreakMins = v
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("config: db_path is required")
	}
	if strings.TrimSpace(c.LedgerPath) == "" {
		return errors.New("config: ledger_path is required")
	}
	if c.TickSeconds <= 0 {
		return fmt.Errorf("config: tick_seconds must be positive, got %d", c.TickSeconds)
	}
	if c.ReminderGraceMins < 0 || c.MissedGraceMins < 0 {
		return errors.New("config: grace minutes must not be negative")
	}
	if c.EventBuffer <= 0 {
		return fmt.Errorf("config: event_buffer must be positive, got %d", c.EventBuffer)
	}
	if c.FocusWorkMins <= 0 || c.FocusBreakMins <= 0 {
		return errors.New("config: focus durations must be positive")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func (c Config) Tick() time.Duration {
	return time.Duration(c.TickSeconds) * time.Second
}

func (c Config) ReminderGrace() time.Duration {
	return time.Duration(c.ReminderGraceMins) * time.Minute
}

func (c Config) MissedGrace() time.Duration {
	return time.Duration(c.MissedGraceMins) * time.Minute
}

func (c Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("config: unknown log_level %q", raw)
	}
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
