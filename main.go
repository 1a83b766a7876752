package main

import (
	"os"

	"github.com/forgelabs/forge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
