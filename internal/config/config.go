package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Store    StoreConfig    `mapstructure:"store" validate:"required"`
	SRS      SRSConfig      `mapstructure:"srs" validate:"required"`
	Reminder ReminderConfig `mapstructure:"reminder"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port        int      `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel    string   `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// StoreConfig selects and configures the snapshot backend.
type StoreConfig struct {
	// Driver is one of json, sqlite or postgres.
	Driver string `mapstructure:"driver" validate:"required,oneof=json sqlite postgres"`
	// DataDir holds cards.json/settings.json or the SQLite database file.
	DataDir     string `mapstructure:"data_dir" validate:"required"`
	DatabaseURL string `mapstructure:"database_url" validate:"required_if=Driver postgres"`
	// SettingsCorruption decides what happens when the settings snapshot cannot be parsed:
	// "default" falls back to default settings, "error" aborts loading.
	SettingsCorruption string `mapstructure:"settings_corruption" validate:"required,oneof=default error"`
}

// SRSConfig bounds the SM-2 ease factor. Both bounds must lie inside the
// [1.3, 5.0] range every stored card is held to.
type SRSConfig struct {
	MinEaseFactor float64 `mapstructure:"min_ease_factor" validate:"gte=1.3,lte=5"`
	MaxEaseFactor float64 `mapstructure:"max_ease_factor" validate:"gte=1.3,lte=5,gtfield=MinEaseFactor"`
}

// ReminderConfig controls the periodic due-card digest.
type ReminderConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalMinutes int  `mapstructure:"interval_minutes" validate:"gte=1"`
}
