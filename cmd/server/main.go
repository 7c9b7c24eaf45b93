package main

import (
	"os"

	"github.com/jrsteele09/go-school-admin/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
