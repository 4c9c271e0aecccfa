package main

import (
	"os"

	"github.com/abhisek/skillgap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
