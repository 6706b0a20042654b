package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Backend struct {
	URL     string        `mapstructure:"url" yaml:"url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}
type Connectivity struct {
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}
type Camera struct {
	PollInterval    time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	MaxPollFailures int           `mapstructure:"max_poll_failures" yaml:"max_poll_failures"`
	Video           bool          `mapstructure:"video" yaml:"video"`
}
type Deepgram struct {
	URL        string `mapstructure:"url" yaml:"url"`
	APIKey     string `mapstructure:"api_key" yaml:"api_key"`
	Model      string `mapstructure:"model" yaml:"model"`
	SampleRate int    `mapstructure:"sample_rate" yaml:"sample_rate"`
	Channels   int    `mapstructure:"channels" yaml:"channels"`
}
type Speech struct {
	Language       string        `mapstructure:"language" yaml:"language"`
	SilenceTimeout time.Duration `mapstructure:"silence_timeout" yaml:"silence_timeout"`
	HardLimit      time.Duration `mapstructure:"hard_limit" yaml:"hard_limit"`
	Deepgram       Deepgram      `mapstructure:"deepgram" yaml:"deepgram"`
}
type Logging struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
}
type Root struct {
	Backend      Backend      `mapstructure:"backend" yaml:"backend"`
	Connectivity Connectivity `mapstructure:"connectivity" yaml:"connectivity"`
	Camera       Camera       `mapstructure:"camera" yaml:"camera"`
	Speech       Speech       `mapstructure:"speech" yaml:"speech"`
	Logging      Logging      `mapstructure:"logging" yaml:"logging"`
	Paths        struct {
		Outputs string `mapstructure:"outputs" yaml:"outputs"`
	} `mapstructure:"paths" yaml:"paths"`
}

const EnvPrefix = "EMOSENSE"

var defaults = map[string]any{
	"backend.url":                 "http://localhost:5000",
	"backend.timeout":             "10s",
	"connectivity.interval":       "5s",
	"camera.poll_interval":        "1s",
	"camera.max_poll_failures":    5,
	"camera.video":                true,
	"speech.language":             "en-US",
	"speech.silence_timeout":      "2s",
	"speech.hard_limit":           "30s",
	"speech.deepgram.url":         "wss://api.deepgram.com/v1/listen",
	"speech.deepgram.api_key":     "",
	"speech.deepgram.model":       "nova-2",
	"speech.deepgram.sample_rate": 16000,
	"speech.deepgram.channels":    1,
	"logging.level":               "info",
	"logging.format":              "text",
	"logging.file":                "",
	"logging.max_size_mb":         10,
	"logging.max_backups":         3,
	"logging.max_age_days":        28,
	"paths.outputs":               "outputs",
}

// New returns a viper instance with defaults, env binding and the search
// paths set. Callers may bind flags before passing it to Load.
func New() *viper.Viper {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("speech.deepgram.api_key", EnvPrefix+"_SPEECH_DEEPGRAM_API_KEY", "DEEPGRAM_API_KEY")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join("config", env))
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".emosense"))
	}
	return v
}

// LoadDotEnv reads .env files into the process environment. A missing file
// is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load resolves the configuration. An explicit path must exist; otherwise
// the search paths are tried and a missing file falls back to defaults.
func Load(v *viper.Viper, path string) (*Root, error) {
	if v == nil {
		v = New()
	}
	if path != "" {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config read: %w", err)
		}
	}
	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Root) Validate() error {
	u, err := url.Parse(c.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: backend.url %q is not an http(s) URL", c.Backend.URL)
	}
	c.Backend.URL = strings.TrimRight(c.Backend.URL, "/")
	for name, d := range map[string]time.Duration{
		"backend.timeout":        c.Backend.Timeout,
		"connectivity.interval":  c.Connectivity.Interval,
		"camera.poll_interval":   c.Camera.PollInterval,
		"speech.silence_timeout": c.Speech.SilenceTimeout,
		"speech.hard_limit":      c.Speech.HardLimit,
	} {
		if d <= 0 {
			return fmt.Errorf("config: %s must be positive, got %s", name, d)
		}
	}
	if c.Camera.MaxPollFailures < 1 {
		return fmt.Errorf("config: camera.max_poll_failures must be at least 1")
	}
	return nil
}

// Dump renders the effective configuration as YAML with secrets redacted.
func Dump(c *Root) ([]byte, error) {
	cp := *c
	if cp.Speech.Deepgram.APIKey != "" {
		cp.Speech.Deepgram.APIKey = "********"
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&cp); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
