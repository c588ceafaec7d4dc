package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/awantoch/familyassign/logger"
)

func main() {
	// Load .env before any flag or config parsing.
	_ = godotenv.Load()

	rootCmd := NewRootCmd()
	err := rootCmd.Execute()
	if err != nil {
		logger.Error("%v", err)
	}
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}
