// Package config loads the settings of the server and the ingestion CLI.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	APIURL           string         `mapstructure:"api_url"`
	Port             int            `mapstructure:"port"`
	GinMode          string         `mapstructure:"gin_mode"`
	LogFormat        string         `mapstructure:"log_format"`
	CORSAllowOrigins string         `mapstructure:"cors_allow_origins"` // Separated by whitespace
	EnablePprof      bool           `mapstructure:"enable_pprof"`
	Database         DatabaseConfig `mapstructure:"database"`
	Ingest           IngestConfig   `mapstructure:"ingest"`
}

// DatabaseConfig selects the store. PostgreSQL is used when Host is set,
// the sqlite file at Path otherwise.
type DatabaseConfig struct {
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// IngestConfig holds the default file locations of the ingestion pipeline.
type IngestConfig struct {
	MintFile       string `mapstructure:"mint_file"`
	EveryDollarDir string `mapstructure:"everydollar_dir"`
	OverlapFile    string `mapstructure:"overlap_file"`
	UnifiedFile    string `mapstructure:"unified_file"`
	MaxDistance    int    `mapstructure:"max_distance"`
}

// aliases are environment variables that are read in addition to the
// prefixed ones.
var aliases = map[string]string{
	"api_url":            "API_URL",
	"port":               "PORT",
	"gin_mode":           "GIN_MODE",
	"log_format":         "LOG_FORMAT",
	"cors_allow_origins": "CORS_ALLOW_ORIGINS",
	"enable_pprof":       "ENABLE_PPROF",
	"database.host":      "DB_HOST",
	"database.port":      "DB_PORT",
	"database.user":      "DB_USER",
	"database.password":  "DB_PASSWORD",
	"database.name":      "DB_NAME",
}

// Load reads configuration from file and env. Env var overrides use prefix WARPED_,
// the file is read from WARPED_CONFIG if set.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("api_url", "http://localhost:5002/api")
	v.SetDefault("port", 5002)
	v.SetDefault("gin_mode", "release")
	v.SetDefault("log_format", "")
	v.SetDefault("cors_allow_origins", "")
	v.SetDefault("enable_pprof", false)
	v.SetDefault("database.path", "data/gorm.db")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "warped")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("ingest.mint_file", "data/mint/transactions.csv")
	v.SetDefault("ingest.everydollar_dir", "data/everydollar")
	v.SetDefault("ingest.overlap_file", "data/overlapping-categories.json")
	v.SetDefault("ingest.unified_file", "data/unified.csv")
	v.SetDefault("ingest.max_distance", 2)

	v.SetEnvPrefix("WARPED")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, alias := range aliases {
		env := "WARPED_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, env, alias); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", alias, err)
		}
	}

	if path := os.Getenv("WARPED_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if _, err := url.Parse(c.APIURL); err != nil {
		return Config{}, fmt.Errorf("api_url is not a valid URL: %w", err)
	}

	return c, nil
}

// AllowedOrigins returns the origins allowed for CORS.
func (c Config) AllowedOrigins() []string {
	return strings.Fields(c.CORSAllowOrigins)
}

// URL returns the parsed API URL.
func (c Config) URL() *url.URL {
	u, _ := url.Parse(c.APIURL)
	return u
}

// PostgresDSN returns the connection string for PostgreSQL.
func (d DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}
