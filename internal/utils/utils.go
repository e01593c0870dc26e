package utils

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadOptionalEnv returns the variables that are set, skipping empty ones.
func LoadOptionalEnv(vars []string) map[string]string {
	_ = godotenv.Load()

	envVars := make(map[string]string)
	for _, key := range vars {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			envVars[key] = value
		}
	}
	return envVars
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

// Truncate cuts s to at most n runes, marking the cut with "…".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
