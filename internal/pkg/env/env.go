package env

import (
	"os"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
)

var Env map[string]string

// SetupEnvFile loads the first .env file found. Containers usually inject
// variables directly, so a missing file is only logged.
func SetupEnvFile() {
	envFiles := []string{
		".env",          // Current directory
		"../../.env",    // From cmd/marketguard to project root
		"../../../.env", // Fallback for deeper nesting
	}

	for _, envFile := range envFiles {
		loaded, err := godotenv.Read(envFile)
		if err == nil {
			Env = loaded
			return
		}
	}

	Env = map[string]string{}
	log.Warn("[Env] No .env file found, using process environment only")
}

// Environ merges the process environment with values from the .env file.
// File values win so a checked-in .env behaves the same on every host.
func Environ() map[string]string {
	out := make(map[string]string, len(Env))
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			out[k] = v
		}
	}
	for k, v := range Env {
		out[k] = v
	}
	return out
}
