package main

import (
	"os"

	"github.com/Xevion/go-mpx/cmd/mpxcal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
