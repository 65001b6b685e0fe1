package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/aussiebroadwan/sessionauth/pkg/cryptox"
)

// EnvPrefix namespaces environment overrides, e.g. AUTH_PORT.
const EnvPrefix = "AUTH_"

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Env          string `koanf:"env"`           // dev, staging, prod (default: dev)
	LogLevel     string `koanf:"log_level"`     // debug, info, warn, error (default: info)
	LogFormat    string `koanf:"log_format"`    // json, text (default: json)
	RedactFields string `koanf:"redact_fields"` // comma separated log keys to mask

	Port                 int           `koanf:"port"`
	ShutdownGracePeriod  time.Duration `koanf:"shutdown_grace_period"`
	HousekeepingInterval time.Duration `koanf:"housekeeping_interval"`

	DatabaseDriver          string `koanf:"database_driver"`
	DatabaseFile            string `koanf:"database_file"` // sqlite only
	DatabaseURL             string `koanf:"database_url"`  // postgres only
	DatabaseConnectAttempts uint64 `koanf:"database_connect_attempts"`

	PepperFile string `koanf:"pepper_file"` // empty disables the pepper
	Hasher     string `koanf:"hasher"`      // argon2id, bcrypt (default: argon2id)

	CookieSecure   bool   `koanf:"cookie_secure"`
	LogoutRedirect string `koanf:"logout_redirect"`
}

// Flags declares every config key as a flag with its default.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("authd", pflag.ContinueOnError)

	fs.String("env", "dev", "environment name")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.String("log-format", "json", "log format (json, text)")
	fs.String("redact-fields", "", "comma separated log attribute keys to mask (default: name,email,phone,ssn,password)")

	fs.Int("port", 8080, "HTTP listen port")
	fs.Duration("shutdown-grace-period", 10*time.Second, "time allowed for in-flight requests on shutdown")
	fs.Duration("housekeeping-interval", time.Minute, "interval between metrics refreshes")

	fs.String("database-driver", DriverSQLite, "database driver (sqlite, postgres)")
	fs.String("database-file", "auth.db", "sqlite database file")
	fs.String("database-url", "", "postgres connection URL")
	fs.Uint64("database-connect-attempts", 5, "postgres connection retries at startup")

	fs.String("pepper-file", "pepper", "file holding the password pepper, created when missing")
	fs.String("hasher", cryptox.AlgorithmArgon2id, "password hashing algorithm (argon2id, bcrypt)")

	fs.Bool("cookie-secure", false, "mark the session cookie Secure")
	fs.String("logout-redirect", "/", "redirect target after logout; empty answers with JSON")

	return fs
}

// LoadConfig layers, from lowest to highest priority: flag defaults, the
// YAML file at path (or AUTH_CONFIG when path is empty), AUTH_* environment
// variables, and flags set explicitly on the command line.
func LoadConfig(fs *pflag.FlagSet, path string) (Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_INVALID").With("path", path).Wrap(err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return Config{}, oops.Code("CONFIG_INVALID").Wrap(err)
	}

	// Unchanged flags only fill keys no other source set.
	err = k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
		return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(fs, f)
	}), nil)
	if err != nil {
		return Config{}, oops.Code("CONFIG_INVALID").Wrap(err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_INVALID").Wrap(err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("database_file is required for sqlite"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("database_url is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database_driver %q", c.DatabaseDriver))
	}

	switch strings.ToLower(c.Hasher) {
	case cryptox.AlgorithmArgon2id, cryptox.AlgorithmBcrypt:
	default:
		errs = append(errs, fmt.Errorf("unknown hasher %q", c.Hasher))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.ShutdownGracePeriod < 0 {
		errs = append(errs, errors.New("shutdown_grace_period must not be negative"))
	}

	if err := errors.Join(errs...); err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	return nil
}

// RedactFieldList splits RedactFields. Nil selects the default PII keys.
func (c Config) RedactFieldList() []string {
	if strings.TrimSpace(c.RedactFields) == "" {
		return nil
	}
	var fields []string
	for _, f := range strings.Split(c.RedactFields, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
