// Package config loads process configuration from an optional .env file and
// AIRSKETCH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/ayusman/airsketch/internal/engine"
	"github.com/ayusman/airsketch/internal/logging"
)

// Prefix is prepended to every environment variable name.
const Prefix = "AIRSKETCH_"

// Config is the full process configuration.
type Config struct {
	Addr            string
	DataDir         string
	WebDir          string
	CameraID        int
	Mirror          bool
	MotionThreshold float64
	LogLevel        slog.Level
	Tray            bool
	Engine          engine.Config
}

// Default returns the built-in configuration.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Addr:            "127.0.0.1:8080",
		DataDir:         filepath.Join(home, ".airsketch"),
		WebDir:          "web",
		CameraID:        0,
		Mirror:          true,
		MotionThreshold: 1.0,
		LogLevel:        slog.LevelInfo,
		Tray:            true,
		Engine:          engine.DefaultConfig(),
	}
}

// DBPath returns the SQLite database location inside DataDir.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "airsketch.db")
}

// Load reads the given .env files (".env" when none are named) into the
// process environment, then builds the configuration from it. Missing .env
// files are not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	return FromEnv(os.LookupEnv, Default())
}

// FromEnv overlays variables found through lookup onto base and validates
// the result.
func FromEnv(lookup func(string) (string, bool), base Config) (Config, error) {
	p := parser{lookup: lookup}
	c := base
	e := &c.Engine

	p.str("ADDR", &c.Addr)
	p.str("DATA_DIR", &c.DataDir)
	p.str("WEB_DIR", &c.WebDir)
	p.int("CAMERA_ID", &c.CameraID)
	p.bool("MIRROR", &c.Mirror)
	p.float("MOTION_THRESHOLD", &c.MotionThreshold)
	p.bool("TRAY", &c.Tray)
	if v, ok := p.get("LOG_LEVEL"); ok {
		level, err := logging.ParseLevel(v)
		p.fail("LOG_LEVEL", err)
		c.LogLevel = level
	}

	p.float("EXTEND_THRESHOLD", &e.Gesture.ExtendThreshold)
	p.float("PEACE_SPREAD", &e.Gesture.PeaceSpread)
	p.millis("RAMP_MS", &e.Gesture.Ramp)
	p.float("DRAW_CONFIDENCE", &e.Thresholds.Draw)
	p.float("ERASE_CONFIDENCE", &e.Thresholds.Erase)
	p.float("SELECT_CONFIDENCE", &e.Thresholds.Select)
	p.float("MIN_DEPTH", &e.Brush.MinDepth)
	p.float("MAX_DEPTH", &e.Brush.MaxDepth)
	p.float("MIN_SIZE", &e.Brush.MinSize)
	p.float("SELECT_REACH", &e.Selection.Reach)
	p.millis("SETTLE_MS", &e.Selection.Settle)
	p.millis("COOLDOWN_MS", &e.Selection.Cooldown)

	if p.err != nil {
		return Config{}, p.err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("address must not be empty")
	}
	if c.DataDir == "" {
		return errors.New("data dir must not be empty")
	}
	if c.CameraID < 0 {
		return fmt.Errorf("camera id %d must not be negative", c.CameraID)
	}
	if c.MotionThreshold <= 0 || c.MotionThreshold > 100 {
		return fmt.Errorf("motion threshold %v outside (0, 100]", c.MotionThreshold)
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	return nil
}

// parser collects the first conversion error.
type parser struct {
	lookup func(string) (string, bool)
	err    error
}

func (p *parser) get(name string) (string, bool) {
	v, ok := p.lookup(Prefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (p *parser) fail(name string, err error) {
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s%s: %w", Prefix, name, err)
	}
}

func (p *parser) str(name string, dst *string) {
	if v, ok := p.get(name); ok {
		*dst = v
	}
}

func (p *parser) int(name string, dst *int) {
	if v, ok := p.get(name); ok {
		n, err := strconv.Atoi(v)
		p.fail(name, err)
		if err == nil {
			*dst = n
		}
	}
}

func (p *parser) float(name string, dst *float64) {
	if v, ok := p.get(name); ok {
		f, err := strconv.ParseFloat(v, 64)
		p.fail(name, err)
		if err == nil {
			*dst = f
		}
	}
}

func (p *parser) bool(name string, dst *bool) {
	if v, ok := p.get(name); ok {
		b, err := strconv.ParseBool(v)
		p.fail(name, err)
		if err == nil {
			*dst = b
		}
	}
}

func (p *parser) millis(name string, dst *time.Duration) {
	if v, ok := p.get(name); ok {
		n, err := strconv.Atoi(v)
		p.fail(name, err)
		if err == nil {
			*dst = time.Duration(n) * time.Millisecond
		}
	}
}
