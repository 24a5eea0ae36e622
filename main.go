package main

import (
	"os"

	"github.com/jtorra/blogscrapper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
