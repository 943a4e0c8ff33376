package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Trade    TradeConfig    `mapstructure:"trade"    validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port           int      `mapstructure:"port"            validate:"required,gt=0,lt=65536"`
	LogLevel       string   `mapstructure:"log_level"       validate:"required,oneof=debug info warn error"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// TradeConfig contains the anti-abuse thresholds of the proposal lifecycle
// engine. They are heuristics, so they stay configurable rather than
// hard-coded.
type TradeConfig struct {
	// DailyProposalLimit caps how many proposals a user may create with the
	// same offered item per UTC calendar day.
	DailyProposalLimit int `mapstructure:"daily_proposal_limit" validate:"required,gt=0"`

	// CounterpartProposalLimit caps how many proposals a user may make with
	// the same offered item against items of the same counterpart.
	CounterpartProposalLimit int `mapstructure:"counterpart_proposal_limit" validate:"required,gt=0"`
}
