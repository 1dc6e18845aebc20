package main

import (
	"os"

	"github.com/joho/godotenv"
)

// dotEnvFiles are loaded in order. Variables already set in the process
// environment, or by an earlier file, are never overwritten.
var dotEnvFiles = []string{".env.local", ".env"}

func loadDotEnv() {
	for _, f := range dotEnvFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		_ = godotenv.Load(f)
	}
}
