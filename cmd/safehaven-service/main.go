package main

import (
	"os"

	"github.com/AFARIMINTAH/Safehaven/safehavenservice"
)

func main() {
	if err := safehavenservice.Run(); err != nil {
		os.Exit(1)
	}
}
