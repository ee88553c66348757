package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store backends selectable with TASKMGR_STORE.
const (
	StoreMongo  = "mongo"
	StoreNeo4j  = "neo4j"
	StoreSQLite = "sqlite"
	StoreMySQL  = "mysql"
)

// DefaultJWTSecret is only meant for local development.
const DefaultJWTSecret = "secret"

// Config holds all configuration options for the API server
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Mongo  MongoConfig
	Neo4j  Neo4jConfig
	SQL    SQLConfig
	Auth   AuthConfig
	Tasks  TasksConfig
	Debug  bool `env:"TASKMGR_DEBUG"`
}

// ServerConfig holds HTTP listener configuration
type ServerConfig struct {
	Port            int           `env:"PORT"`
	ShutdownTimeout time.Duration `env:"TASKMGR_SHUTDOWN_TIMEOUT"`
}

// StoreConfig selects and tunes the persistence backend
type StoreConfig struct {
	Driver  string        `env:"TASKMGR_STORE"`
	Timeout time.Duration `env:"TASKMGR_STORE_TIMEOUT"`
}

// MongoConfig holds the document database connection
type MongoConfig struct {
	URI string `env:"MONGODB_URI"`
}

// Neo4jConfig holds the graph database connection
type Neo4jConfig struct {
	URI      string `env:"NEO4J_URI"`
	User     string `env:"NEO4J_USER"`
	Password string `env:"NEO4J_PASSWORD"`
}

// SQLConfig holds the relational backends' connection strings
type SQLConfig struct {
	SQLitePath string `env:"SQLITE_PATH"`
	MySQLDSN   string `env:"MYSQL_DSN"`
}

// AuthConfig holds token and password hashing settings
type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL"`
	BcryptCost int           `env:"BCRYPT_COST"`
}

// TasksConfig holds task validation switches
type TasksConfig struct {
	StrictPriority bool `env:"TASKMGR_STRICT_PRIORITY"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Driver:  StoreMongo,
			Timeout: 10 * time.Second,
		},
		Mongo: MongoConfig{
			URI: "mongodb://localhost:27017/taskmanager",
		},
		Neo4j: Neo4jConfig{
			URI:      "neo4j://localhost:7687",
			User:     "neo4j",
			Password: "password",
		},
		SQL: SQLConfig{
			SQLitePath: "taskmanager.db",
			MySQLDSN:   "root:@tcp(localhost:3306)/taskmanager?parseTime=true",
		},
		Auth: AuthConfig{
			JWTSecret:  DefaultJWTSecret,
			TokenTTL:   5 * time.Hour,
			BcryptCost: 10,
		},
	}
}

// Load reads an optional .env file, then the environment, and validates
// the result. Variables already set in the environment win over .env.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigError{Field: "env_file", Message: err.Error()}
		}
	}

	cfg := NewConfig()
	if err := cfg.LoadFromEnvironment(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}

// UsesDefaultSecret reports whether tokens are signed with the development key
func (c *Config) UsesDefaultSecret() bool {
	return c.Auth.JWTSecret == DefaultJWTSecret
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return &ConfigError{Field: "server.port", Message: "PORT must be a number"}
		}
		c.Server.Port = p
	}
	if d := os.Getenv("TASKMGR_SHUTDOWN_TIMEOUT"); d != "" {
		c.Server.ShutdownTimeout = ParseDurationWithFallback(d, c.Server.ShutdownTimeout)
	}

	if driver := os.Getenv("TASKMGR_STORE"); driver != "" {
		c.Store.Driver = driver
	}
	if d := os.Getenv("TASKMGR_STORE_TIMEOUT"); d != "" {
		c.Store.Timeout = ParseDurationWithFallback(d, c.Store.Timeout)
	}

	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		c.Mongo.URI = uri
	}

	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		c.Neo4j.URI = uri
	}
	if user := os.Getenv("NEO4J_USER"); user != "" {
		c.Neo4j.User = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		c.Neo4j.Password = pass
	}

	if path := os.Getenv("SQLITE_PATH"); path != "" {
		c.SQL.SQLitePath = path
	}
	if dsn := os.Getenv("MYSQL_DSN"); dsn != "" {
		c.SQL.MySQLDSN = dsn
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}
	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		c.Auth.TokenTTL = ParseDurationWithFallback(ttl, c.Auth.TokenTTL)
	}
	if cost := os.Getenv("BCRYPT_COST"); cost != "" {
		c.Auth.BcryptCost = ParseIntWithFallback(cost, c.Auth.BcryptCost)
	}

	if strict := os.Getenv("TASKMGR_STRICT_PRIORITY"); strict != "" {
		c.Tasks.StrictPriority = ParseBoolWithFallback(strict, c.Tasks.StrictPriority)
	}
	if os.Getenv("TASKMGR_DEBUG") != "" {
		c.Debug = true
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: "port must be between 1 and 65535"}
	}
	if c.Server.ShutdownTimeout <= 0 {
		return &ConfigError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"}
	}
	if c.Store.Timeout <= 0 {
		return &ConfigError{Field: "store.timeout", Message: "store timeout must be positive"}
	}

	switch c.Store.Driver {
	case StoreMongo:
		if c.Mongo.URI == "" {
			return &ConfigError{Field: "mongo.uri", Message: "MONGODB_URI cannot be empty"}
		}
	case StoreNeo4j:
		if c.Neo4j.URI == "" {
			return &ConfigError{Field: "neo4j.uri", Message: "NEO4J_URI cannot be empty"}
		}
	case StoreSQLite:
		if c.SQL.SQLitePath == "" {
			return &ConfigError{Field: "sql.sqlite_path", Message: "SQLITE_PATH cannot be empty"}
		}
	case StoreMySQL:
		if c.SQL.MySQLDSN == "" {
			return &ConfigError{Field: "sql.mysql_dsn", Message: "MYSQL_DSN cannot be empty"}
		}
	default:
		return &ConfigError{Field: "store.driver", Message: "unknown store " + strconv.Quote(c.Store.Driver)}
	}

	if c.Auth.JWTSecret == "" {
		return &ConfigError{Field: "auth.jwt_secret", Message: "JWT_SECRET cannot be empty"}
	}
	if c.Auth.TokenTTL <= 0 {
		return &ConfigError{Field: "auth.token_ttl", Message: "token lifetime must be positive"}
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return &ConfigError{Field: "auth.bcrypt_cost", Message: "bcrypt cost must be between 4 and 31"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}
