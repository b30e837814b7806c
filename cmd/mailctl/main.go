package main

import (
	"fmt"
	"os"

	"github.com/omondijeff/pension-pilot-mail-service/pkg/cli"
)

func main() {
	root := cli.NewRootCommand(os.Stdout)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
