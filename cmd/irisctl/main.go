package main

import (
	"os"

	"iris_api/cmd/irisctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
