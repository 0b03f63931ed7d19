package config

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

const (
	BackendAirtable = "airtable"
	BackendMongo    = "mongo"
)

type Config struct {
	Port      string `env:"PORT,       default=3000"        validate:"required,numeric"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"        validate:"oneof=trace debug info warn warning error"`
	PublicDir string `env:"PUBLIC_DIR, default=public"`

	// Sections are validated by Validate, per selected backend.
	Store    StoreConfig    `validate:"-"`
	Airtable AirtableConfig `validate:"-"`
	Mongo    MongoConfig    `validate:"-"`
	Geometry GeometryConfig `validate:"-"`
}

type StoreConfig struct {
	Backend string        `env:"STORE_BACKEND, default=airtable" validate:"oneof=airtable mongo"`
	Timeout time.Duration `env:"STORE_TIMEOUT, default=10s"      validate:"gt=0"`
	Table   string        `env:"TABLE_NAME"                      validate:"required"`
	View    string        `env:"VIEW_NAME,     default=Grid view"`
}

// AirtableConfig is only validated when the airtable backend is selected.
type AirtableConfig struct {
	APIKey   string `env:"AIRTABLE_API_KEY"      validate:"required"`
	BaseID   string `env:"AIRTABLE_BASE_ID"      validate:"required"`
	Endpoint string `env:"AIRTABLE_ENDPOINT_URL, default=https://api.airtable.com/v0" validate:"url"`
}

// MongoConfig is only validated when the mongo backend is selected.
type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017" validate:"required"`
	Database string `env:"MONGO_DB,  default=delivery_map"              validate:"required"`
}

type GeometryConfig struct {
	RecordProfile string `env:"RECORD_PROFILE, default=full"     validate:"oneof=full delivery legacy"`
	ScanProfile   string `env:"SCAN_PROFILE,   default=delivery" validate:"oneof=full delivery legacy"`
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig and
// validates it.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom is Load with an explicit lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad is Load that panics on failure.
func MustLoad() *Config {
	cfg, err := Load(context.Background())
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

// Validate checks every section that applies to the selected backend.
func (c *Config) Validate() error {
	v := newValidator()

	sections := []any{c, &c.Store, &c.Geometry}
	switch c.Store.Backend {
	case BackendAirtable:
		sections = append(sections, &c.Airtable)
	case BackendMongo:
		sections = append(sections, &c.Mongo)
	}

	var msgs []string
	for _, s := range sections {
		if err := v.Struct(s); err != nil {
			var ve validator.ValidationErrors
			if !errors.As(err, &ve) {
				return fmt.Errorf("config: %w", err)
			}
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
		}
	}
	if len(msgs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// newValidator reports fields by their environment variable name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("env"), ",")
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "numeric":
		return field + " must be numeric"
	case "url":
		return field + " must be a valid url"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
