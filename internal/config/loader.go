package config

import (
	"os"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/codemarcinu/steward/internal/types"
)

// Loader loads configuration from YAML files.
type Loader interface {
	// Load reads and validates the file at path.
	Load(path string) (*Config, error)

	// LoadWithDefaults behaves like Load, but a missing file yields the
	// default configuration instead of an error.
	LoadWithDefaults(path string) (*Config, error)
}

type viperLoader struct {
	validator Validator
}

// NewLoader creates a Loader that validates with validator.
func NewLoader(validator Validator) Loader {
	return &viperLoader{validator: validator}
}

func (l *viperLoader) Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED,
			"failed to read config file", err)
	}

	// Interpolate ${VAR} references before decoding so secrets can live
	// in the environment instead of the file.
	settings, ok := interpolateEnvVars(v.AllSettings()).(map[string]any)
	if !ok {
		settings = v.AllSettings()
	}

	// Decoding over the defaults means keys absent from the file keep
	// their default values.
	cfg := DefaultConfig()
	if err := decodeSettings(settings, cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED,
			"failed to decode config file", err)
	}

	if err := l.validator.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (l *viperLoader) LoadWithDefaults(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := l.validator.Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	return l.Load(path)
}

// decodeSettings decodes a settings map onto cfg with the same hooks
// viper uses, so durations and lists parse from their string forms.
func decodeSettings(settings map[string]any, cfg *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(settings)
}

var envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// interpolateEnvVars recursively replaces ${VAR_NAME} references in all
// string values. Unset variables leave the reference untouched.
func interpolateEnvVars(data any) any {
	switch v := data.(type) {
	case map[string]any:
		result := make(map[string]any, len(v))
		for key, value := range v {
			result[key] = interpolateEnvVars(value)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, value := range v {
			result[i] = interpolateEnvVars(value)
		}
		return result
	case string:
		return interpolateString(v)
	default:
		return v
	}
}

func interpolateString(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if value := os.Getenv(name); value != "" {
			return value
		}
		return match
	})
}
