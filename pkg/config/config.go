package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// DSN renders the postgres connection string the way gorm's postgres driver
// expects it.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port)
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type Config struct {
	AppEnv    string
	JWTSecret string
	Database  DatabaseConfig

	Cloudinary CloudinaryConfig

	GeminiAPIKey string
	GeminiModel  string

	WeatherAPIKey string
	WeatherAPIURL string

	DataGovAPIKey string
	MandiAPIURL   string
}

// Load reads .env (when present) and assembles the config for one service.
// dbName picks the service's database; everything else is shared.
func Load(dbName string) *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	return &Config{
		AppEnv:    getEnv("APP_ENV", "production"),
		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "postgres"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "program"),
			Password: getEnv("DB_PASSWORD", "test"),
			Name:     getEnv("DB_NAME", dbName),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
			Folder:    getEnv("CLOUDINARY_FOLDER", "listings"),
		},
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		WeatherAPIKey: getEnv("OPENWEATHER_API_KEY", ""),
		WeatherAPIURL: getEnv("OPENWEATHER_API_URL", "https://api.openweathermap.org/data/2.5"),
		DataGovAPIKey: getEnv("DATA_GOV_IN_API_KEY", ""),
		MandiAPIURL:   getEnv("MANDI_API_URL", "https://api.data.gov.in/resource/9ef84268-d588-465a-a308-a864a43d0070"),
	}
}

// Development reports whether verbose error bodies may be returned to
// clients.
func (c *Config) Development() bool {
	return c.AppEnv == "development"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
