package main

import (
	"os"

	"github.com/ezlaw/ezlaw/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
