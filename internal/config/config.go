package config

import (
	"fmt"
	"log"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported product store drivers
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Mongo    MongoConfig
	Database DatabaseConfig
	Metrics  MetricsConfig
}

type ServerConfig struct {
	Port          string `validate:"required,numeric"`
	Env           string `validate:"required"`
	LogLevel      string `validate:"omitempty,oneof=debug info warn error"`
	AllowedOrigin string `validate:"required"`
}

type StoreConfig struct {
	Driver   string `validate:"oneof=mongo postgres memory"`
	SeedFile string
}

type MongoConfig struct {
	URI        string
	Host       string
	User       string
	Password   string
	Database   string `validate:"required"`
	Collection string `validate:"required"`
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
	SSLMode  string
}

type MetricsConfig struct {
	Namespace string
}

// Load reads configuration from an optional .env file and the environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not read .env file: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("CORS_ALLOWED_ORIGIN", "http://localhost:5173")
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGO_HOST", "cluster0.q1nysvk.mongodb.net")
	v.SetDefault("MONGO_DATABASE", "eShopDB")
	v.SetDefault("MONGO_COLLECTION", "products")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("METRICS_NAMESPACE", "catalog")

	return &Config{
		Server: ServerConfig{
			Port:          v.GetString("SERVER_PORT"),
			Env:           v.GetString("SERVER_ENV"),
			LogLevel:      v.GetString("LOG_LEVEL"),
			AllowedOrigin: v.GetString("CORS_ALLOWED_ORIGIN"),
		},
		Store: StoreConfig{
			Driver:   v.GetString("STORE_DRIVER"),
			SeedFile: v.GetString("MEMORY_SEED_FILE"),
		},
		Mongo: MongoConfig{
			URI:        v.GetString("MONGO_URI"),
			Host:       v.GetString("MONGO_HOST"),
			User:       firstSet(v, "MONGO_USER", "DB_USER"),
			Password:   firstSet(v, "MONGO_PASSWORD", "DB_PASS"),
			Database:   v.GetString("MONGO_DATABASE"),
			Collection: v.GetString("MONGO_COLLECTION"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_DATABASE"),
			Schema:   v.GetString("DB_SCHEMA"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Metrics: MetricsConfig{
			Namespace: v.GetString("METRICS_NAMESPACE"),
		},
	}
}

// firstSet returns the first non-empty value among keys. The Mongo
// credentials fall back to the legacy DB_USER and DB_PASS keys.
func firstSet(v *viper.Viper, keys ...string) string {
	for _, key := range keys {
		if value := v.GetString(key); value != "" {
			return value
		}
	}
	return ""
}

// Validate checks the loaded values before any connection is attempted
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	switch c.Store.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" && (c.Mongo.User == "" || c.Mongo.Password == "") {
			return fmt.Errorf("invalid configuration: MONGO_URI or MONGO_USER and MONGO_PASSWORD are required")
		}
	case DriverPostgres:
		if c.Database.Database == "" {
			return fmt.Errorf("invalid configuration: DB_DATABASE is required")
		}
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// MongoURI returns MONGO_URI or an Atlas SRV URI built from the credentials
func (c MongoConfig) MongoURI() string {
	if c.URI != "" {
		return c.URI
	}

	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority&appName=Cluster0",
	}
	return u.String()
}

// DSN returns the PostgreSQL connection string
func (c DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Database,
		RawQuery: url.Values{"search_path": {c.Schema}, "sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}
