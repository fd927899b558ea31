package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Points   PointsConfig
	Telegram TelegramConfig
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

// PointsConfig holds the bonus amounts and the referral code retry budget.
// Injected into the services at construction time; nothing reads these as
// package-level globals.
type PointsConfig struct {
	SignupBonus     int
	ReferralBonus   int
	UploadReward    int
	DownloadReward  int
	CodeMaxAttempts int
}

// TelegramConfig holds Bot API configuration for membership checks
type TelegramConfig struct {
	BaseURL  string
	BotToken string
	ChatID   string
	MockAPI  bool
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
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "jehub-points")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("LogLevel", "info")
	viper.SetDefault("Points.SignupBonus", 20)
	viper.SetDefault("Points.ReferralBonus", 50)
	viper.SetDefault("Points.UploadReward", 30)
	viper.SetDefault("Points.DownloadReward", 10)
	viper.SetDefault("Points.CodeMaxAttempts", 10)
	viper.SetDefault("Telegram.BaseURL", "https://api.telegram.org")
	viper.SetDefault("Telegram.MockAPI", true)
}
