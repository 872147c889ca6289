package utils

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotenv loads a .env file from the working directory if one exists.
// A missing file is not an error; deployed environments set variables directly.
func LoadDotenv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
}

// Getenv retrieves the value of the environment variable named by the key.
// If the variable is not present or its value is empty, Getenv returns the fallback string.
func Getenv(key, fallback string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		return fallback
	}
	return value
}
