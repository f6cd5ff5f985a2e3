package config

import (
	"os"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	GinMode    string
	Port       string
}

func Load() *Config {
	return &Config{
		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "nexususer"),
		DBPassword: getEnv("DB_PASSWORD", "nexuspassword"),
		DBName:     getEnv("DB_NAME", "task_nexus"),
		JWTSecret:  getEnv("JWT_SECRET", "super-secret-key-123"),
		GinMode:    getEnv("GIN_MODE", "debug"),
		Port:       getEnv("PORT", "5000"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
