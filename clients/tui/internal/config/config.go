package config

import (
	"flag"
	"fmt"
	"net/url"
	"os"
)

const (
	DefaultAPIURL  = "http://localhost:5206/api/todo"
	DefaultLogFile = "todo-tui.log"
)

type Config struct {
	APIURL   string
	LogFile  string
	LogLevel string
}

// Load читает флаги из args; флаг важнее переменной окружения
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("todo-tui", flag.ContinueOnError)
	apiURL := fs.String("api", getEnv("TODO_API_URL", DefaultAPIURL), "base URL of the todo API")
	logFile := fs.String("log", getEnv("TODO_TUI_LOG", DefaultLogFile), "log file path")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	u, err := url.Parse(*apiURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q", *apiURL)
	}
	if *logFile == "" {
		return nil, fmt.Errorf("log file path is empty")
	}

	return &Config{
		APIURL:   *apiURL,
		LogFile:  *logFile,
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
