package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// CORSAllowedOrigins lists the origins browsers may call the API from.
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins" validate:"dive,required"`
}

// Supported storage backends.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// Driver selects the storage backend: "postgres" or "mongo".
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres mongo"`
	URL    string `mapstructure:"url"    validate:"required,url"`
	// Name is the MongoDB database name. Ignored for postgres, where the
	// database is part of the URL.
	Name string `mapstructure:"name" validate:"required_if=Driver mongo"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	AccessTokenSecret  string `mapstructure:"access_token_secret"  validate:"required,min=32"`
	RefreshTokenSecret string `mapstructure:"refresh_token_secret" validate:"required,min=32"`

	// Lifetimes are independent of one another.
	AccessTokenLifetimeMinutes  int `mapstructure:"access_token_lifetime_minutes"  validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`

	// BcryptCost is the work factor used when hashing passwords.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`
}
