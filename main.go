package main

import (
	"os"

	"github.com/denisheim/Sleeping-Barber-Problem/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
