package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Spin     SpinConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// SpinConfig holds the spin protocol policy knobs
type SpinConfig struct {
	DailyLimit   int     // spins per user per merchant per day
	ExpiryDays   int     // redemption window after issuance
	Timezone     string  // IANA name; decides which wall clock a "day" is on
	PricePerSpin float64 // display-only revenue estimate
	PayoutRate   float64 // display-only payout estimate
}

// Location resolves the configured timezone, falling back to the system
// local zone when the name does not parse.
func (c SpinConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read configuration
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Unmarshal configuration
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017/?replicaSet=rs0")
	viper.SetDefault("MongoDB.Database", "wheeldeal")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Spin.DailyLimit", 3)
	viper.SetDefault("Spin.ExpiryDays", 7)
	viper.SetDefault("Spin.Timezone", "Local")
	viper.SetDefault("Spin.PricePerSpin", 1.0)
	viper.SetDefault("Spin.PayoutRate", 0.7)
	viper.SetDefault("LogLevel", "info")
}
