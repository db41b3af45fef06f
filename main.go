package main

import (
	"os"

	"github.com/ta-agent/taagent/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
