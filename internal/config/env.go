package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL  string
	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string
	AIAPIKey     string
	GenModel     string
	Port         string

	// Ingestion policy. These were compiled-in constants in the original
	// edge function; they are env-tunable here.
	ChunkSizeChars    int
	ChunkOverlapChars int
	MaxFileBytes      int
	MaxDocsPerUser    int
	Extractor         string // "heuristic" | "gemini" | "docconv"
	ExtractTimeoutSec int
}

// LoadConfig loads the environment variables and returns config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),
		BucketName:   getEnv("BUCKET_NAME", "exavo-rag-docs"),
		AIAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GenModel:     getEnv("GEN_MODEL", "gemini-1.5-flash"),
		Port:         getEnv("PORT", "8080"),

		ChunkSizeChars:    getEnvInt("CHUNK_SIZE_CHARS", 800),
		ChunkOverlapChars: getEnvInt("CHUNK_OVERLAP_CHARS", 150),
		MaxFileBytes:      getEnvInt("MAX_FILE_BYTES", 5<<20),
		MaxDocsPerUser:    getEnvInt("MAX_DOCS_PER_USER", 3),
		Extractor:         getEnv("EXTRACTOR", "heuristic"),
		ExtractTimeoutSec: getEnvInt("EXTRACT_TIMEOUT_SECONDS", 60),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}
