package main

import (
	"os"

	"github.com/rustyeddy/datatrader/cmd/datatrader/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
