package config

import (
	"os"
	"strconv"
)

type Config struct {
	Environment  string
	ServerPort   string
	DBHost       string
	DBPort       int
	DBUser       string
	DBPassword   string
	DBName       string
	JWTSecret    string
	AuthEmail    string
	AuthPassword string
}

func Load() (*Config, error) {
	return &Config{
		Environment:  getEnv("ENVIRONMENT", "development"),
		ServerPort:   getEnv("PORT", "8080"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnvInt("DB_PORT", 5432),
		DBUser:       getEnv("DB_USER", "postgres"),
		DBPassword:   getEnv("DB_PASSWORD", ""),
		DBName:       getEnv("DB_NAME", "langlab"),
		JWTSecret:    getEnv("JWT_SECRET", "your-secret-key"),
		AuthEmail:    getEnv("AUTH_EMAIL", "learner@localhost"),
		AuthPassword: getEnv("AUTH_PASSWORD", "changeme"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
