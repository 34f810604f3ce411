package main

import (
	"fmt"
	"os"

	"github.com/kbukum/oauth2http/cmd/oauth2http/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
