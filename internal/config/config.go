// Package config loads plugin options from flags, OBS_DYNAMIC_PATH_* environment
// variables and an optional config.yaml, and watches that file for changes.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hrko/obs-dynamic-path/internal/pathtemplate"
)

const (
	AppName   = "obs-dynamic-path"
	EnvPrefix = "OBS_DYNAMIC_PATH"

	KeyAddress        = "address"
	KeyPassword       = "password"
	KeyLogLevel       = "log-level"
	KeyPathTemplate   = "path-template"
	KeySelectedSource = "selected-source"
	KeySourceMode     = "source-mode"
	KeyBaseDir        = "base-dir"

	SourceModeManual = "manual"
	SourceModeScene  = "scene"
)

type Config struct {
	Address        string
	Password       string
	LogLevel       string
	PathTemplate   string
	SelectedSource string
	SourceMode     string
	BaseDir        string
}

func Defaults() Config {
	return Config{
		Address:      "localhost:4455",
		LogLevel:     "info",
		PathTemplate: pathtemplate.DefaultTemplate,
		SourceMode:   SourceModeManual,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Address) == "" {
		return errors.New("address must not be empty")
	}
	switch c.SourceMode {
	case SourceModeManual, SourceModeScene:
	default:
		return errors.Errorf("unknown source mode %q (expected %s or %s)", c.SourceMode, SourceModeManual, SourceModeScene)
	}
	if err := pathtemplate.Validate(c.PathTemplate); err != nil {
		return err
	}
	return nil
}

// NewViper prepares a viper instance. An explicit path disables the search and
// makes a missing file an error on Load.
func NewViper(explicitPath string) *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault(KeyAddress, d.Address)
	v.SetDefault(KeyPassword, d.Password)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyPathTemplate, d.PathTemplate)
	v.SetDefault(KeySelectedSource, d.SelectedSource)
	v.SetDefault(KeySourceMode, d.SourceMode)
	v.SetDefault(KeyBaseDir, d.BaseDir)

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
		return v
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range SearchDirs() {
		v.AddConfigPath(dir)
	}
	return v
}

func SearchDirs() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, AppName))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, AppName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", AppName))
	}
	dirs = append(dirs, ".")

	seen := make(map[string]struct{}, len(dirs))
	out := dirs[:0]
	for _, d := range dirs {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

// DefaultPath is where a new config file is written when none was found.
func DefaultPath() string {
	return filepath.Join(SearchDirs()[0], "config.yaml")
}

// BindFlags binds every flag named after a config key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil || !isKey(f.Name) {
			return
		}
		err = v.BindPFlag(f.Name, f)
	})
	return err
}

func isKey(name string) bool {
	switch name {
	case KeyAddress, KeyPassword, KeyLogLevel, KeyPathTemplate, KeySelectedSource, KeySourceMode, KeyBaseDir:
		return true
	}
	return false
}

func Load(v *viper.Viper, strict bool) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if strict || !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "read config")
		}
	}
	cfg := Decode(v)
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func Decode(v *viper.Viper) Config {
	return Config{
		Address:        v.GetString(KeyAddress),
		Password:       v.GetString(KeyPassword),
		LogLevel:       v.GetString(KeyLogLevel),
		PathTemplate:   v.GetString(KeyPathTemplate),
		SelectedSource: v.GetString(KeySelectedSource),
		SourceMode:     v.GetString(KeySourceMode),
		BaseDir:        v.GetString(KeyBaseDir),
	}
}

// Watch calls onChange with the re-decoded config each time the config file
// is written. Invalid configs are reported through onError and skipped. It
// reports false when there is no config file to watch.
func Watch(v *viper.Viper, onChange func(Config), onError func(error)) bool {
	if v.ConfigFileUsed() == "" {
		return false
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		cfg := Decode(v)
		if err := cfg.Validate(); err != nil {
			if onError != nil {
				onError(errors.Wrapf(err, "ignoring change to %s", e.Name))
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return true
}

// WriteSelectedSource persists the selected source into the config file in use,
// creating DefaultPath if there is none yet. Only the file's own keys are
// written back; flag and environment values stay out of it.
func WriteSelectedSource(v *viper.Viper, name string) (string, error) {
	path := v.ConfigFileUsed()
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(err, "create config directory")
	}

	file := viper.New()
	file.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		file.SetConfigType("yaml")
	}
	if _, err := os.Stat(path); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return "", errors.Wrapf(err, "read config %s", path)
		}
	}
	file.Set(KeySelectedSource, name)
	if err := file.WriteConfigAs(path); err != nil {
		return "", errors.Wrapf(err, "write config %s", path)
	}
	v.Set(KeySelectedSource, name)
	return path, nil
}

// WriteDefaults creates a config file holding the default values. An existing
// file is left alone and reported as not written.
func WriteDefaults(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, errors.Wrap(err, "create config directory")
	}
	d := Defaults()
	file := viper.New()
	file.SetConfigType("yaml")
	file.Set(KeyAddress, d.Address)
	file.Set(KeyPassword, d.Password)
	file.Set(KeyLogLevel, d.LogLevel)
	file.Set(KeyPathTemplate, d.PathTemplate)
	file.Set(KeySelectedSource, d.SelectedSource)
	file.Set(KeySourceMode, d.SourceMode)
	file.Set(KeyBaseDir, d.BaseDir)
	if err := file.SafeWriteConfigAs(path); err != nil {
		return false, errors.Wrapf(err, "write config %s", path)
	}
	return true, nil
}
