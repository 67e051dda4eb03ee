package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config groups the application configuration, read via Viper from the
// environment and optionally from a .env file. Env vars take priority.
type Config struct {
	App    AppConfig
	HTTP   HTTPConfig
	Mongo  MongoConfig
	JWT    JWTConfig
	Store  StoreConfig
	Email  EmailConfig
	SMS    SMSConfig
	Images ImagesConfig
}

// AppConfig is general application configuration.
type AppConfig struct {
	Env      string // development or production
	Name     string
	LogLevel string
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr returns the listen address (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	URI      string
	Database string
}

// JWTConfig configures token signing.
type JWTConfig struct {
	Secret            string
	ExpirationMinutes int
}

// StoreConfig configures the collection store used by the seed/provision tools.
// Backend selects "file" or "mongo"; DataDir is the file backend's directory.
// Strict propagates read/parse failures instead of downgrading to an empty
// collection.
type StoreConfig struct {
	Backend string
	DataDir string
	Strict  bool
}

// EmailConfig configures the Postmark (transactional) and SendGrid
// (promotional) senders. Empty tokens leave the corresponding sender
// unavailable.
type EmailConfig struct {
	PostmarkToken  string
	SendGridAPIKey string
	Sender         string
	BaseURL        string // public base URL used in verification/reset links
}

// SMSConfig configures the Twilio adapter. Empty credentials leave the
// adapter unavailable.
type SMSConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	AlertPhone string // operations number for low-stock alerts
}

// ImagesConfig configures the Cloudinary adapter.
type ImagesConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Load reads configuration from environment variables (and a .env file when
// present). Expected names: APP_ENV, HTTP_PORT, MONGO_URI, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Optional .env file; env vars win either way.
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // missing file is fine

	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:      v.GetString("APP_ENV"),
			Name:     v.GetString("APP_NAME"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DATABASE"),
		},
		JWT: JWTConfig{
			Secret:            v.GetString("JWT_SECRET"),
			ExpirationMinutes: v.GetInt("JWT_EXPIRATION_MINUTES"),
		},
		Store: StoreConfig{
			Backend: v.GetString("STORE_BACKEND"),
			DataDir: v.GetString("STORE_DATA_DIR"),
			Strict:  v.GetBool("STORE_STRICT"),
		},
		Email: EmailConfig{
			PostmarkToken:  v.GetString("POSTMARK_API_TOKEN"),
			SendGridAPIKey: v.GetString("SENDGRID_API_KEY"),
			Sender:         v.GetString("EMAIL_SENDER"),
			BaseURL:        v.GetString("APP_BASE_URL"),
		},
		SMS: SMSConfig{
			AccountSID: v.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:  v.GetString("TWILIO_AUTH_TOKEN"),
			FromNumber: v.GetString("TWILIO_FROM_NUMBER"),
			AlertPhone: v.GetString("TWILIO_ALERT_NUMBER"),
		},
		Images: ImagesConfig{
			CloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    v.GetString("CLOUDINARY_API_KEY"),
			APISecret: v.GetString("CLOUDINARY_API_SECRET"),
			Folder:    v.GetString("CLOUDINARY_FOLDER"),
		},
	}

	if cfg.JWT.Secret == "" && cfg.App.Env == "production" {
		return nil, fmt.Errorf("config: JWT_SECRET must be set in production")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "dollers-electro")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8000)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "dollers_electro")
	v.SetDefault("JWT_EXPIRATION_MINUTES", 24*60)
	v.SetDefault("STORE_BACKEND", "file")
	v.SetDefault("STORE_DATA_DIR", "data")
	v.SetDefault("STORE_STRICT", false)
	v.SetDefault("APP_BASE_URL", "http://localhost:8000")
}
