package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// LLM provider
	GroqAPIKey     string
	LLMModel       string
	LLMTemperature float64

	// Email delivery
	SMTPServer   string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string

	// Storage. Sqlite in-memory by default; postgres when DBHost is set.
	DBPath     string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file")
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		GroqAPIKey:     getEnv("GROQ_API_KEY", ""),
		LLMModel:       getEnv("LLM_MODEL", "llama3-70b-8192"),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0),
		SMTPServer:     getEnv("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:       getEnvInt("SMTP_PORT", 587),
		SMTPUser:       getEnv("SMTP_USER", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		DBPath:         getEnv("DB_PATH", "file::memory:?cache=shared"),
		DBHost:         getEnv("DB_HOST", ""),
		DBUser:         getEnv("DB_USER", ""),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "naarad"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
	}
	cfg.EmailFrom = getEnv("EMAIL_FROM", cfg.SMTPUser)

	return cfg
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Warning: invalid value for %s, using %d", key, fallback)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Warning: invalid value for %s, using %g", key, fallback)
	}
	return fallback
}
