package main

import (
	"github.com/joho/godotenv"

	"docqa/internal/cli"
)

func main() {
	// Optional .env for local overrides; absence is fine.
	godotenv.Load()

	cli.Execute()
}
