package main

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/ledger-analytics/cmd/analyze"
	"fjacquet/ledger-analytics/cmd/categories"
	"fjacquet/ledger-analytics/cmd/networth"
	"fjacquet/ledger-analytics/cmd/root"
	"fjacquet/ledger-analytics/cmd/trends"

	"github.com/joho/godotenv"
)

func init() {
	// LEDGER_* variables from .env must be visible before viper reads the environment.
	loadEnvSilently()

	root.Init()

	root.Cmd.AddCommand(analyze.Cmd)
	root.Cmd.AddCommand(trends.Cmd)
	root.Cmd.AddCommand(categories.Cmd)
	root.Cmd.AddCommand(networth.Cmd)
}

// loadEnvSilently loads .env from the current or the parent directory. Variables
// already present in the environment are not overridden.
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
