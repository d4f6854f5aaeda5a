package main

import (
	"os"

	"github.com/perch-chain/perch/cmd/perchd/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
