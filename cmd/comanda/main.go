package main

import (
	"os"

	"github.com/comandaapp/comanda/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
