// Package config loads docsgen settings from flags, DOCSGEN_* environment
// variables and an optional .docsgen.yaml file, in that order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/docsgen/internal/loader"
)

// FileName is the configuration file looked up in the working directory.
const FileName = ".docsgen.yaml"

// EnvPrefix prefixes environment overrides, e.g. DOCSGEN_FILLER.
const EnvPrefix = "DOCSGEN"

// Config holds every docsgen setting.
type Config struct {
	// Python is the interpreter command; empty means python3, then python.
	Python string `mapstructure:"python"`
	// Static parses sources instead of executing them.
	Static bool `mapstructure:"static"`
	// Probe enables live sampling of return values.
	Probe        bool          `mapstructure:"probe"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout" validate:"gt=0"`
	LoadTimeout  time.Duration `mapstructure:"load_timeout" validate:"gt=0"`
	Filler       string        `mapstructure:"filler" validate:"oneof=constant typed"`
	// Ignore lists class names that are never documented.
	Ignore      []string `mapstructure:"ignore" validate:"dive,required"`
	MaxFileSize int64    `mapstructure:"max_file_size" validate:"gt=0"`
	OutputDir   string   `mapstructure:"output_dir" validate:"required"`
	Gitignore   bool     `mapstructure:"gitignore"`
	SkipTests   bool     `mapstructure:"skip_tests"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Probe:        true,
		ProbeTimeout: 10 * time.Second,
		LoadTimeout:  30 * time.Second,
		Filler:       "typed",
		Ignore:       []string{"Any"},
		MaxFileSize:  loader.DefaultMaxFileSize,
		OutputDir:    ".",
		Gitignore:    true,
	}
}

// Keys of the settings, as used in the configuration file and by viper.
const (
	KeyPython       = "python"
	KeyStatic       = "static"
	KeyProbe        = "probe"
	KeyProbeTimeout = "probe_timeout"
	KeyLoadTimeout  = "load_timeout"
	KeyFiller       = "filler"
	KeyIgnore       = "ignore"
	KeyMaxFileSize  = "max_file_size"
	KeyOutputDir    = "output_dir"
	KeyGitignore    = "gitignore"
	KeySkipTests    = "skip_tests"
)

// NewViper returns a viper instance with defaults, environment overrides
// and the configuration file applied. An explicit file must exist; the
// default file is optional.
func NewViper(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
		return v, nil
	}

	v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// SetDefaults registers the values of Default with v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyPython, d.Python)
	v.SetDefault(KeyStatic, d.Static)
	v.SetDefault(KeyProbe, d.Probe)
	v.SetDefault(KeyProbeTimeout, d.ProbeTimeout)
	v.SetDefault(KeyLoadTimeout, d.LoadTimeout)
	v.SetDefault(KeyFiller, d.Filler)
	v.SetDefault(KeyIgnore, d.Ignore)
	v.SetDefault(KeyMaxFileSize, d.MaxFileSize)
	v.SetDefault(KeyOutputDir, d.OutputDir)
	v.SetDefault(KeyGitignore, d.Gitignore)
	v.SetDefault(KeySkipTests, d.SkipTests)
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var (
	validatorInstance *validator.Validate
	validatorOnce     sync.Once
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInstance = validator.New()
	})
	return validatorInstance
}

// Validate checks the settings against their constraints.
func (c Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = fmt.Sprintf("%s: failed %q check (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// file is the YAML layout of Config, with durations spelled as strings.
type file struct {
	Python       string   `yaml:"python"`
	Static       bool     `yaml:"static"`
	Probe        bool     `yaml:"probe"`
	ProbeTimeout string   `yaml:"probe_timeout"`
	LoadTimeout  string   `yaml:"load_timeout"`
	Filler       string   `yaml:"filler"`
	Ignore       []string `yaml:"ignore"`
	MaxFileSize  int64    `yaml:"max_file_size"`
	OutputDir    string   `yaml:"output_dir"`
	Gitignore    bool     `yaml:"gitignore"`
	SkipTests    bool     `yaml:"skip_tests"`
}

// Marshal renders cfg as a configuration file.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(file{
		Python:       cfg.Python,
		Static:       cfg.Static,
		Probe:        cfg.Probe,
		ProbeTimeout: cfg.ProbeTimeout.String(),
		LoadTimeout:  cfg.LoadTimeout.String(),
		Filler:       cfg.Filler,
		Ignore:       cfg.Ignore,
		MaxFileSize:  cfg.MaxFileSize,
		OutputDir:    cfg.OutputDir,
		Gitignore:    cfg.Gitignore,
		SkipTests:    cfg.SkipTests,
	})
}
