package main

import (
	"os"

	"github.com/LeonardoGonSantos/tracectl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
