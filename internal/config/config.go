package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr     string
	DBPath         string
	ImagePath      string
	SessionKey     string
	SessionName    string
	AdminToken     string
	BcryptCost     int
	MaxUploadBytes int64
	LogLevel       string
	LogFile        string
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first, without overriding variables that
// are already set.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		DBPath:         getEnv("DB_PATH", "/data/memoryvault.db"),
		ImagePath:      getEnv("IMAGE_LOCAL_PATH", "/data/images"),
		SessionKey:     getEnv("SESSION_KEY", ""),
		SessionName:    getEnv("SESSION_NAME", "memoryvault-session"),
		AdminToken:     getEnv("ADMIN_TOKEN", ""),
		BcryptCost:     getEnvInt("BCRYPT_COST", 0),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 50*1024*1024)),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
