package config

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

const (
	envPrefix             = "NOTABLE"
	defaultBackend        = BackendFile
	defaultStoragePath    = "notable.json"
	defaultLogLevel       = "info"
	defaultSoonHours      = 24
	defaultDebounceMillis = 400
	defaultSnippetBefore  = 30
	defaultSnippetAfter   = 40
)

// AppConfig captures runtime configuration for the notes engine.
type AppConfig struct {
	StorageBackend string
	StoragePath    string
	LogLevel       string
	SoonHours      int
	DebounceMillis int
	SnippetBefore  int
	SnippetAfter   int
}

// SoonWindow returns the reminder soon threshold as a duration.
func (c AppConfig) SoonWindow() time.Duration {
	return time.Duration(c.SoonHours) * time.Hour
}

// AutosaveDelay returns the edit debounce as a duration.
func (c AppConfig) AutosaveDelay() time.Duration {
	return time.Duration(c.DebounceMillis) * time.Millisecond
}

// NewViper returns a viper instance with defaults and env bindings
// configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided
// viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("storage.backend", defaultBackend)
	configViper.SetDefault("storage.path", defaultStoragePath)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("reminder.soon_hours", defaultSoonHours)
	configViper.SetDefault("autosave.debounce_ms", defaultDebounceMillis)
	configViper.SetDefault("search.snippet_before", defaultSnippetBefore)
	configViper.SetDefault("search.snippet_after", defaultSnippetAfter)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		StorageBackend: configViper.GetString("storage.backend"),
		StoragePath:    configViper.GetString("storage.path"),
		LogLevel:       configViper.GetString("log.level"),
		SoonHours:      configViper.GetInt("reminder.soon_hours"),
		DebounceMillis: configViper.GetInt("autosave.debounce_ms"),
		SnippetBefore:  configViper.GetInt("search.snippet_before"),
		SnippetAfter:   configViper.GetInt("search.snippet_after"),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func (c AppConfig) validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.StorageBackend, validation.Required, validation.In(BackendFile, BackendSQLite)),
		validation.Field(&c.StoragePath, validation.Required),
		validation.Field(&c.SoonHours, validation.Required, validation.Min(1)),
		validation.Field(&c.DebounceMillis, validation.Required, validation.Min(1)),
		validation.Field(&c.SnippetBefore, validation.Required, validation.Min(1)),
		validation.Field(&c.SnippetAfter, validation.Required, validation.Min(1)),
	)
}
