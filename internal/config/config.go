package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv   string
	HTTPAddr string

	// BaseURL is the root of the catalog site; relative picture and listing
	// URLs resolve against it.
	BaseURL string

	UserAgent       string
	RequestTimeout  time.Duration
	PolitenessDelay time.Duration
	PageSize        int
	PageRetries     int

	// DefaultLocation is used when a listing's location cannot be parsed.
	DefaultLocation string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func Load() Config {
	return Config{
		AppEnv:   getenv("APP_ENV", "development"),
		HTTPAddr: getenv("HTTP_ADDR", ":8081"),

		BaseURL: getenv("BASE_URL", "https://surplus.infineon.com/"),

		UserAgent:       getenv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		RequestTimeout:  getenvDuration("REQUEST_TIMEOUT", 30*time.Second),
		PolitenessDelay: getenvDuration("POLITENESS_DELAY", 500*time.Millisecond),
		PageSize:        getenvInt("PAGE_SIZE", 100),
		PageRetries:     getenvInt("PAGE_RETRIES", 2),

		DefaultLocation: getenv("DEFAULT_LOCATION", "Regensburg, Germany"),
	}
}
