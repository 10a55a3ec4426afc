package main

import (
	"os"

	"github.com/corpeningc/cmt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
