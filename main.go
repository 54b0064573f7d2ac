package main

import (
	"os"

	"github.com/ncsound919/OG-Glass/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
