package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr         string
	UsersFile    string
	ProductsFile string

	JWTSecret  string
	BcryptCost int

	// StoreBackend selects between the default whole-file JSON stores
	// ("file") and Postgres ("postgres").
	StoreBackend string
	DatabaseURL  string

	MetricsEnabled bool
	MetricsToken   string
}

func Load() Config {
	if os.Getenv("ENV") == "dev" {
		_ = godotenv.Load()
	}

	return Config{
		// ADDR wins when set; PORT is the shorthand for ":<port>".
		Addr:         getEnv("ADDR", ":"+getEnv("PORT", "8080")),
		UsersFile:    getEnv("USERS_FILE", "users.json"),
		ProductsFile: getEnv("PRODUCTS_FILE", "products.json"),

		JWTSecret:  getEnv("JWT_SECRET", "dev-secret"),
		BcryptCost: getEnvInt("BCRYPT_COST", 10),

		StoreBackend: getEnv("STORE_BACKEND", "file"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", false),
		MetricsToken:   getEnv("METRICS_TOKEN", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.Atoi(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
