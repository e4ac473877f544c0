package main

import (
	"github.com/joho/godotenv"

	"github.com/jshaha/cognitive-load-annotation/internal/cli"
)

func main() {
	// A missing .env file is fine; viper falls back to defaults and
	// explicit environment variables.
	_ = godotenv.Load()

	cli.Execute()
}
