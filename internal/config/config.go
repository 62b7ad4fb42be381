package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/park285/cheese-board/internal/rules"
	yaml "gopkg.in/yaml.v3"
)

// cfgFile is searched for under the XDG config directories.
const cfgFile = "cheese-board/config.yaml"

type LogConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	ToConsole bool   `yaml:"to_console"`
	ToFile    bool   `yaml:"to_file"`
	File      string `yaml:"file"`
	Caller    bool   `yaml:"caller"`
}

type AppConfig struct {
	AutomatedSide string `yaml:"automated_side"`
	Promotion     string `yaml:"promotion"`
	ThinkDelayMS  int    `yaml:"think_delay_ms"`
	// RandomSeed 0 seeds from the clock.
	RandomSeed int64  `yaml:"random_seed"`
	StartFEN   string `yaml:"start_fen"`
	MessageDir string `yaml:"message_dir"`

	Log LogConfig `yaml:"log"`

	// Source is the file the values were read from, empty when none was found.
	Source string `yaml:"-"`
}

func defaults() AppConfig {
	return AppConfig{
		AutomatedSide: "black",
		Promotion:     "queen",
		ThinkDelayMS:  300,
		Log: LogConfig{
			Level:  "info",
			Format: "legacy",
			ToFile: true,
			File:   filepath.Join("logs", "cheese-board.log"),
		},
	}
}

// Load layers defaults, the config file and environment overrides. The file
// is CHESS_CONFIG_FILE when set, otherwise cheese-board/config.yaml under the
// XDG config dirs; a missing XDG file is not an error.
func Load() (*AppConfig, error) {
	path := strings.TrimSpace(os.Getenv("CHESS_CONFIG_FILE"))
	if path == "" {
		if found, err := xdg.SearchConfigFile(cfgFile); err == nil {
			path = found
		}
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit file; an empty path skips the file layer.
func LoadFile(path string) (*AppConfig, error) {
	cfg := defaults()
	if path = strings.TrimSpace(path); path != "" {
		if err := readFile(path, &cfg); err != nil {
			return nil, err
		}
		cfg.Source = path
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readFile(path string, cfg *AppConfig) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *AppConfig) error {
	if v := strings.TrimSpace(os.Getenv("CHESS_AUTOMATED_SIDE")); v != "" {
		cfg.AutomatedSide = v
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_PROMOTION")); v != "" {
		cfg.Promotion = v
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_THINK_DELAY_MS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CHESS_THINK_DELAY_MS: %w", err)
		}
		cfg.ThinkDelayMS = n
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_RANDOM_SEED")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("CHESS_RANDOM_SEED: %w", err)
		}
		cfg.RandomSeed = n
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_START_FEN")); v != "" {
		cfg.StartFEN = v
	}
	if v := strings.TrimSpace(os.Getenv("MESSAGE_DIR")); v != "" {
		cfg.MessageDir = v
	}

	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		cfg.Log.Format = v
	}
	for _, b := range []struct {
		name string
		dst  *bool
	}{
		{"LOG_TO_CONSOLE", &cfg.Log.ToConsole},
		{"LOG_TO_FILE", &cfg.Log.ToFile},
		{"LOG_CALLER", &cfg.Log.Caller},
	} {
		v := strings.TrimSpace(os.Getenv(b.name))
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", b.name, err)
		}
		*b.dst = parsed
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FILE")); v != "" {
		cfg.Log.File = v
	}
	return nil
}

func (c *AppConfig) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.AutomatedSide)) {
	case "white", "w", "first", "black", "b", "second", "none", "":
	default:
		return fmt.Errorf("automated side must be white, black or none: %q", c.AutomatedSide)
	}
	switch p := c.PromotionPiece(); p {
	case rules.Queen, rules.Rook, rules.Bishop, rules.Knight:
	default:
		return fmt.Errorf("invalid promotion piece: %q", c.Promotion)
	}
	if c.ThinkDelayMS < 0 {
		return errors.New("think delay must not be negative")
	}
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch c.Log.Format {
	case "legacy", "json", "console", "":
	default:
		return fmt.Errorf("unknown log format: %q", c.Log.Format)
	}
	return nil
}

// Automated returns the side played by the selector; "none" and "" mean
// nobody.
func (c *AppConfig) Automated() rules.Side {
	return rules.ParseSide(c.AutomatedSide)
}

func (c *AppConfig) PromotionPiece() rules.PieceType {
	p, err := rules.ParsePieceType(c.Promotion)
	if err != nil {
		return rules.NoPieceType
	}
	return p
}

func (c *AppConfig) ThinkDelay() time.Duration {
	return time.Duration(c.ThinkDelayMS) * time.Millisecond
}

// LogFile is the file the logger writes to, empty when file logging is off.
func (c *AppConfig) LogFile() string {
	if !c.Log.ToFile {
		return ""
	}
	return strings.TrimSpace(c.Log.File)
}
