package main

import (
	"os"

	"github.com/ertugrulmehmetoglu235-lab/alt-nzincir-ap/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
