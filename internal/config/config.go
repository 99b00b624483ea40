package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	appLog "dtrange/internal/log"
	"dtrange/internal/stepspec"
	"dtrange/internal/timepoint"
)

// Output encodings understood by the command line.
const (
	OutputText  = "text"
	OutputJSON  = "json"
	OutputICS   = "ics"
	OutputRRule = "rrule"
)

// BasicAuthConfig holds HTTP Basic Auth credentials for the range API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the command line configuration. Flags override every field.
type Config struct {
	// Timezone is the IANA zone for dates and zone-less text (e.g. "Asia/Seoul").
	Timezone string `yaml:"timezone" json:"timezone"`

	// InputFormat parses textual START/END. strftime ("%Y-%m-%d"), token
	// ("YYYY-MM-DD") or Go layouts are accepted.
	InputFormat string `yaml:"input_format" json:"input_format"`

	// OutputLayout formats points in text output; same dialects as InputFormat.
	OutputLayout string `yaml:"output_layout" json:"output_layout"`

	// Output is one of text, json, ics, rrule.
	Output string `yaml:"output" json:"output"`

	// Step is the default step notation (see package stepspec).
	Step string `yaml:"step" json:"step"`

	// Limit caps the number of points written. Zero means no cap.
	Limit int `yaml:"limit" json:"limit"`

	// LogLevel is DEBUG, INFO, WARN or ERROR.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Listen is the HTTP listen address of "dtrange serve".
	Listen string `yaml:"listen" json:"listen"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timezone:     "UTC",
		InputFormat:  "%Y-%m-%d",
		OutputLayout: time.RFC3339Nano,
		Output:       OutputText,
		Step:         "P1D",
		Limit:        0,
		LogLevel:     string(appLog.LevelInfo),
		Listen:       "127.0.0.1:8080",
	}
}

// Normalize fills in missing values with defaults so that partially
// filled files still behave.
func (c *Config) Normalize() {
	d := DefaultConfig()
	if c.Timezone == "" {
		c.Timezone = d.Timezone
	}
	if c.InputFormat == "" {
		c.InputFormat = d.InputFormat
	}
	if c.OutputLayout == "" {
		c.OutputLayout = d.OutputLayout
	}
	switch c.Output {
	case OutputText, OutputJSON, OutputICS, OutputRRule:
	default:
		c.Output = d.Output
	}
	if c.Step == "" {
		c.Step = d.Step
	}
	if c.Limit < 0 {
		c.Limit = 0
	}
	if _, err := appLog.ParseLevel(c.LogLevel); err != nil {
		c.LogLevel = d.LogLevel
	}
	if c.Listen == "" {
		c.Listen = d.Listen
	}
}

// Validate checks the fields that Normalize cannot repair.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := stepspec.Parse(c.Step); err != nil {
		return errors.Wrap(err, "config: step")
	}
	if _, err := timepoint.Layout(c.InputFormat); err != nil {
		return errors.Wrap(err, "config: input_format")
	}
	if _, err := timepoint.Layout(c.OutputLayout); err != nil {
		return errors.Wrap(err, "config: output_layout")
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "config: timezone %q", c.Timezone)
	}
	return loc, nil
}

// Load loads configuration from the given YAML path. A missing file yields
// the defaults; use Save to create it.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			appLog.Debug("config file not found, using defaults", "path", path)
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600
// permissions, creating the parent directory (0700) if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".dtrange-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method that delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
