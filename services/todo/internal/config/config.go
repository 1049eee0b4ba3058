package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // "memory", "postgres" или "sqlite"
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	Path     string `yaml:"path"` // файл для sqlite
}

type Config struct {
	Port       string         `yaml:"port"`
	LogLevel   string         `yaml:"log_level"`
	Seed       bool           `yaml:"seed"`
	CORSOrigin string         `yaml:"cors_allowed_origin"`
	DB         DatabaseConfig `yaml:"database"`
}

// Default - значения по умолчанию, совпадают с локальной разработкой клиента
func Default() *Config {
	return &Config{
		Port:       "5206",
		LogLevel:   "info",
		Seed:       true,
		CORSOrigin: "http://localhost:4200",
		DB: DatabaseConfig{
			Driver:  "memory",
			Host:    "localhost",
			Port:    "5432",
			User:    "todo_user",
			DBName:  "todo_db",
			SSLMode: "disable",
			Path:    "todo.db",
		},
	}
}

// Load собирает конфиг: значения по умолчанию, затем YAML из TODO_CONFIG (если задан),
// затем переменные окружения
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("TODO_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("TODO_PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.CORSOrigin = getEnv("CORS_ALLOWED_ORIGIN", cfg.CORSOrigin)
	cfg.DB.Driver = getEnv("DB_DRIVER", cfg.DB.Driver)
	cfg.DB.Host = getEnv("DB_HOST", cfg.DB.Host)
	cfg.DB.Port = getEnv("DB_PORT", cfg.DB.Port)
	cfg.DB.User = getEnv("DB_USER", cfg.DB.User)
	cfg.DB.Password = getEnv("DB_PASSWORD", cfg.DB.Password)
	cfg.DB.DBName = getEnv("DB_NAME", cfg.DB.DBName)
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", cfg.DB.SSLMode)
	cfg.DB.Path = getEnv("DB_PATH", cfg.DB.Path)

	if v := os.Getenv("TODO_SEED"); v != "" {
		seed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TODO_SEED %q: %w", v, err)
		}
		cfg.Seed = seed
	}

	switch cfg.DB.Driver {
	case "memory", "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.DB.Driver)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (db *DatabaseConfig) DSN() string {
	switch db.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			db.Host, db.Port, db.User, db.Password, db.DBName, db.SSLMode)
	case "sqlite":
		return db.Path
	default:
		return ""
	}
}
