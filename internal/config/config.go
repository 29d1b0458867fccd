// SPDX-License-Identifier: EPL-2.0

// Package config loads melfeat settings from defaults, an optional YAML file,
// a .env file, MELFEAT_* environment variables and command line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/ik5/melfeat/spectral"
)

// EnvPrefix prefixes every environment variable, e.g. MELFEAT_SAMPLE_RATE.
const EnvPrefix = "MELFEAT"

var ErrInvalid = errors.New("invalid configuration")

// Keys shared between defaults, flags and the config file.
const (
	KeyRoot       = "root"
	KeyFolders    = "folders"
	KeyPattern    = "pattern"
	KeyBands      = "bands"
	KeyFrames     = "frames"
	KeySampleRate = "sample_rate"
	KeyWorkers    = "workers"
	KeyFailFast   = "fail_fast"
	KeyOutput     = "output"
	KeyReport     = "report"
	KeyProgress   = "progress"
	KeyLogLevel   = "log.level"
	KeyLogFile    = "log.file"
	KeyLogJSON    = "log.json"
)

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
	JSON  bool   `mapstructure:"json"`
}

type Config struct {
	Root       string    `mapstructure:"root"`
	Folders    []string  `mapstructure:"folders"`
	Pattern    string    `mapstructure:"pattern"`
	Bands      int       `mapstructure:"bands"`
	Frames     int       `mapstructure:"frames"`
	SampleRate int       `mapstructure:"sample_rate"`
	Workers    int       `mapstructure:"workers"`
	FailFast   bool      `mapstructure:"fail_fast"`
	Output     string    `mapstructure:"output"`
	Report     string    `mapstructure:"report"`
	Progress   bool      `mapstructure:"progress"`
	Log        LogConfig `mapstructure:"log"`
}

// DefaultFolders are the ten UrbanSound8K folds.
func DefaultFolders() []string {
	folders := make([]string, 10)
	for i := range folders {
		folders[i] = fmt.Sprintf("fold%d", i+1)
	}

	return folders
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyFolders, DefaultFolders())
	v.SetDefault(KeyPattern, "*.wav")
	v.SetDefault(KeyBands, 60)
	v.SetDefault(KeyFrames, 41)
	v.SetDefault(KeySampleRate, 22050)
	v.SetDefault(KeyWorkers, 0)
	v.SetDefault(KeyFailFast, false)
	v.SetDefault(KeyOutput, "urbansound8k.msgpack.zst")
	v.SetDefault(KeyReport, "")
	v.SetDefault(KeyProgress, true)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogJSON, false)
	v.SetDefault(KeyRoot, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads .env (if present) and configFile (if set) into v and decodes
// the result. The returned Config has been validated.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: reading %s: %w", ErrInvalid, configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Root == "" {
		errs = append(errs, errors.New("root is required"))
	}
	if len(c.Folders) == 0 {
		errs = append(errs, errors.New("at least one folder is required"))
	}
	if _, err := filepath.Match(c.Pattern, ""); err != nil || c.Pattern == "" {
		errs = append(errs, fmt.Errorf("bad pattern %q", c.Pattern))
	}
	if c.Bands < 1 {
		errs = append(errs, fmt.Errorf("bands must be positive, got %d", c.Bands))
	}
	if c.Frames < spectral.DefaultDeltaWidth {
		errs = append(errs, fmt.Errorf("frames must be at least %d, got %d", spectral.DefaultDeltaWidth, c.Frames))
	}
	if c.SampleRate < 0 {
		errs = append(errs, fmt.Errorf("sample_rate must not be negative, got %d", c.SampleRate))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output is required"))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}

	return nil
}
