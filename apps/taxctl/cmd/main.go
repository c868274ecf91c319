package main

import (
	"os"

	"github.com/cyphera/cyphera-tax/apps/taxctl/internal/cli"

	"github.com/joho/godotenv"
)

var version = "dev"

func main() {
	// A missing .env is fine; TAX_* variables may come from the shell.
	_ = godotenv.Load()

	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
