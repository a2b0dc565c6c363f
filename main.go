package main

import (
	"os"

	"github.com/km-arc/go-scopes/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
