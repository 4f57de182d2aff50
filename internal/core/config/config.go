package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Courier holds the trackcourier upstream configuration.
	Courier CourierConfig `mapstructure:",squash"`

	// TrackingMap holds the mobile-to-doc-id store configuration.
	TrackingMap TrackingMapConfig `mapstructure:",squash"`

	// Admin holds the admin gate configuration.
	Admin AdminConfig `mapstructure:",squash"`

	// Proxy holds the optional outbound proxy configuration.
	Proxy ProxyConfig `mapstructure:",squash"`
}

// CourierConfig holds the settings of the trackcourier upstream.
type CourierConfig struct {
	// BaseURL is the origin of the courier tracking service.
	BaseURL string `mapstructure:"TRACKCOURIER_BASE_URL" default:"https://trackcourier.io"`
	// DefaultSlug is used when a request does not name a courier.
	DefaultSlug string `mapstructure:"TRACKCOURIER_DEFAULT_SLUG" default:"anjani-courier"`
	// DefaultTableKey is used when the table key cannot be scraped.
	DefaultTableKey string `mapstructure:"TRACKCOURIER_DEFAULT_TABLE_KEY" default:"99650a6b6645d880782ae9fd1d0d412a"`
	// TimeoutSeconds bounds every outbound request.
	TimeoutSeconds int `mapstructure:"TRACKCOURIER_TIMEOUT_SECONDS" default:"15"`
	// MaxDocIDs caps the doc ids accepted by a single request.
	MaxDocIDs int `mapstructure:"TRACKCOURIER_MAX_DOC_IDS" default:"25"`
	// MaxNonce bounds the proof-of-work search.
	MaxNonce int64 `mapstructure:"POW_MAX_NONCE" default:"10000000"`
	// BrowserFallback enables rendering the tracking page in a headless browser
	// when the table key is missing from the static HTML.
	BrowserFallback bool `mapstructure:"TRACKCOURIER_BROWSER_FALLBACK" default:"false"`
}

// TrackingMapConfig holds the tracking map storage settings.
type TrackingMapConfig struct {
	// KVURL is the external key-value backend (redis:// or https:// REST endpoint).
	KVURL string `mapstructure:"KV_URL"`
	// KVToken is the bearer token for a REST key-value backend.
	KVToken string `mapstructure:"KV_TOKEN"`
	// KVKey is the key holding the tracking map document.
	KVKey string `mapstructure:"TRACKING_MAP_KV_KEY" default:"tracking-map"`
	// PublicBaseURL is where the deployed site serves tracking-map.json.
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL" default:"https://bharat.style"`
	// DataPath is the primary local JSON document.
	DataPath string `mapstructure:"TRACKING_MAP_DATA_PATH" default:"data/tracking-map.json"`
	// PublicPath is the secondary local JSON document, served statically.
	PublicPath string `mapstructure:"TRACKING_MAP_PUBLIC_PATH" default:"public/tracking-map.json"`
}

// AdminConfig holds the shared secret of the admin endpoints.
type AdminConfig struct {
	// Password is compared against the secret supplied by the admin UI.
	Password string `mapstructure:"TRACKING_ADMIN_PASSWORD" required:"true"`
}

// ProxyConfig holds outbound proxy settings.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"PROXY_ENABLED" default:"false"`
	Hostname string `mapstructure:"PROXY_HOSTNAME"`
	Port     int    `mapstructure:"PROXY_PORT"`
	Username string `mapstructure:"PROXY_USERNAME"`
	Password string `mapstructure:"PROXY_PASSWORD"`
}

// IsProduction reports whether the service runs with a read-only filesystem.
func (c *AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("failed to bind env %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && isZero(val.Field(i)) {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
