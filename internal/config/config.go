package config

import (
	"os"
	"strconv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	MySQLDSN   string
	RedisAddr  string
	RedisDB    int
	RedisPass  string
	JWTSecret  string

	// Object storage for uploaded food images.
	S3Bucket   string
	S3Region   string
	S3Endpoint string

	// Spoonacular recipe search API (via RapidAPI).
	SpoonacularAPIKey  string
	SpoonacularAPIHost string

	// Clarifai image recognition API.
	ClarifaiAPIKey  string
	ClarifaiModelID string

	SwaggerHost string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		MySQLDSN:   getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/gorecipe?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:    getEnvInt("REDIS_DB", 0),
		RedisPass:  os.Getenv("REDIS_PASSWORD"),
		JWTSecret:  getEnv("JWT_SECRET", "change-me"),

		S3Bucket:   getEnv("S3_BUCKET", "gorecipe-foodimage-uploads"),
		S3Region:   getEnv("S3_REGION", "us-east-2"),
		S3Endpoint: os.Getenv("S3_ENDPOINT"),

		SpoonacularAPIKey:  os.Getenv("SPOONACULAR_API_KEY"),
		SpoonacularAPIHost: getEnv("SPOONACULAR_API_HOST", "spoonacular-recipe-food-nutrition-v1.p.rapidapi.com"),

		ClarifaiAPIKey:  os.Getenv("CLARIFAI_API_KEY"),
		ClarifaiModelID: getEnv("CLARIFAI_MODEL_ID", "bd367be194cf45149e75f01d59f77ba7"),

		SwaggerHost: os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
