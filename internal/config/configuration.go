package config

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"soundstage.systems/foleydeck/pkg/utils/passwords"
)

type Config struct {
	// WebServer Configuration
	WebServerPort int `mapstructure:"WEBSERVER_PORT" validate:"required,min=1,max=65535"`

	// Site Configuration
	SiteManifest string `mapstructure:"SITE_MANIFEST" validate:"required"`
	SiteDomain   string `mapstructure:"SITE_DOMAIN" validate:"required,hostname_rfc1123"`
	DataDir      string `mapstructure:"DATA_DIR" validate:"required"`

	// Media Configuration
	MediaDir     string `mapstructure:"MEDIA_DIR" validate:"required"`
	MediaBaseURL string `mapstructure:"MEDIA_BASE_URL" validate:"required"`

	// Dataset reload
	WatchDatasets bool `mapstructure:"WATCH_DATASETS"`

	// Preview gate. Empty hash leaves the site public.
	PreviewPasswordHash string `mapstructure:"PREVIEW_PASSWORD_HASH" validate:"omitempty,argonhash"`
	SessionSecret       string `mapstructure:"SESSION_SECRET" validate:"omitempty,base64,min=44"`

	LogLevel string `mapstructure:"LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`
}

// use reflect to bind environment variables based on mapstructure tags
func bindEnv(c Config) {
	val := reflect.ValueOf(c)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag != "" {
			viper.BindEnv(tag)
		}

		// Handle nested structs
		if field.Type.Kind() == reflect.Struct && tag == "" {
			nestedTyp := fieldVal.Type()
			for j := 0; j < fieldVal.NumField(); j++ {
				nestedField := nestedTyp.Field(j)
				nestedTag := nestedField.Tag.Get("mapstructure")
				if nestedTag != "" {
					viper.BindEnv(nestedTag)
				}
			}
		}
	}
}

func LoadConfig(ctx context.Context) (*Config, error) {
	bindEnv(Config{})
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("WEBSERVER_PORT", 8080)
	viper.SetDefault("SITE_MANIFEST", "site.yaml")
	viper.SetDefault("SITE_DOMAIN", "foleydeck.local")
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("MEDIA_DIR", "./media")
	viper.SetDefault("MEDIA_BASE_URL", "/media")
	viper.SetDefault("WATCH_DATASETS", true)
	viper.SetDefault("LOG_LEVEL", "info")

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	slog.Info("Loaded configuration",
		"port", cfg.WebServerPort,
		"site_manifest", cfg.SiteManifest,
		"data_dir", cfg.DataDir,
		"media_dir", cfg.MediaDir,
		"media_base_url", cfg.MediaBaseURL,
		"watch_datasets", cfg.WatchDatasets,
		"preview_gate", cfg.PreviewPasswordHash != "",
	)

	validate := validator.New()
	if err := validate.RegisterValidation("argonhash", func(fl validator.FieldLevel) bool {
		return passwords.IsArgonEncoded(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("register argonhash validator: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// SlogLevel maps the configured level string onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
