package main

import (
	"os"

	"github.com/bankwizard-dev/bankwizard/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
