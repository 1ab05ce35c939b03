package main

import (
	"os"

	"github.com/smallyu/go-ntcore/cmd/ntcore/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
