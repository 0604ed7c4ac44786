package main

import (
	"os"

	"github.com/Kiko915/techterview-mainapp-sub001/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
