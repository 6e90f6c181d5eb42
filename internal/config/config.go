package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	LogFile      string
	MaxUploadMB  int

	// conversion defaults, overridable per request
	FuzzyThreshold  float64
	DefaultSkipRows int
	MaxSkipRows     int
}

func Load() Config {
	return Config{
		Host:            getenv("HOST", "127.0.0.1"),
		Port:            getenvInt("PORT", 8082),
		AllowOrigins:    strings.Split(getenv("ALLOW_ORIGINS", "*"), ","),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogFile:         getenv("LOG_FILE", "logs/sosmate-service.log"),
		MaxUploadMB:     getenvInt("MAX_UPLOAD_MB", 64),
		FuzzyThreshold:  getenvFloat("FUZZY_THRESHOLD", 0.8),
		DefaultSkipRows: getenvInt("DEFAULT_SKIP_ROWS", 6),
		MaxSkipRows:     getenvInt("MAX_SKIP_ROWS", 50),
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
