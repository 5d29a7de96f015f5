package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configuration keys. Each key is also read from the environment variable of the
// same name in upper case, and from the command-line flag listed in flagNames.
const (
	KeyPort              = "port"
	KeyLogLevel          = "log_level"
	KeyConnectionString  = "azure_storage_connection_string"
	KeyAllowedExtensions = "allowed_extensions"
	KeyCORSOrigins       = "cors_allowed_origins"
	KeyEnvFile           = "env_file"
)

// DefaultAllowedExtensions is the upload allow-list used when ALLOWED_EXTENSIONS is unset.
var DefaultAllowedExtensions = []string{"jpg", "jpeg", "png", "pdf", "mp4"}

var flagNames = map[string]string{
	KeyPort:     "port",
	KeyLogLevel: "log-level",
	KeyEnvFile:  "env-file",
}

// Config holds the gateway configuration. It is resolved once at startup and
// treated as immutable afterwards.
type Config struct {
	// Port is the HTTP port the gateway listens on.
	// Default: 8080
	Port int

	// LogLevel controls the verbosity of logging (debug, info, warn, error).
	// Default: "info"
	LogLevel string

	// ConnectionString is the storage account connection string. It is the only
	// credential the gateway holds and is passed to the storage adapter unchanged.
	ConnectionString string

	// AllowedExtensions lists the file extensions accepted on upload, lower case and
	// without a leading dot.
	// Default: jpg,jpeg,png,pdf,mp4
	AllowedExtensions []string

	// CORSOrigins lists the origins allowed by the CORS middleware.
	// Default: *
	CORSOrigins []string
}

// RegisterFlags adds the flags understood by Load to a flag set.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.Int(flagNames[KeyPort], 8080, "HTTP port to listen on (env PORT)")
	flags.String(flagNames[KeyLogLevel], "info", "log level: debug, info, warn, error (env LOG_LEVEL)")
	flags.String(flagNames[KeyEnvFile], ".env", "optional dotenv file loaded before reading the environment")
}

// Load resolves the configuration. Values come, in order of precedence, from
// explicitly set flags, the process environment, the dotenv file, and defaults.
// flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault(KeyPort, 8080)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyAllowedExtensions, strings.Join(DefaultAllowedExtensions, ","))
	v.SetDefault(KeyCORSOrigins, "*")
	v.SetDefault(KeyEnvFile, ".env")
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagNames {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	// godotenv never overrides variables already present in the environment, and
	// viper reads the environment lazily, so values from the file are visible below.
	if err := godotenv.Load(v.GetString(KeyEnvFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg := &Config{
		Port:              v.GetInt(KeyPort),
		LogLevel:          v.GetString(KeyLogLevel),
		ConnectionString:  strings.TrimSpace(v.GetString(KeyConnectionString)),
		AllowedExtensions: normalizeExtensions(splitList(v.GetString(KeyAllowedExtensions))),
		CORSOrigins:       splitList(v.GetString(KeyCORSOrigins)),
	}
	return cfg, nil
}

// Validate performs basic validation on the configuration.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port >= 65536 {
		return fmt.Errorf("invalid PORT: %d (must be 1-65535)", c.Port)
	}
	if c.ConnectionString == "" {
		return errors.New("AZURE_STORAGE_CONNECTION_STRING is required")
	}
	if len(c.AllowedExtensions) == 0 {
		return errors.New("ALLOWED_EXTENSIONS cannot be empty")
	}
	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	seen := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(e, "."))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
