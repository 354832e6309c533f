package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	cmd := &cobra.Command{
		Use:     "fedsync",
		Short:   "fedsync is a utility for inspecting federation deltas and search queries",
		Version: version,
	}

	cmd.PersistentFlags().String("log-level", "error", "The log level: debug, info, warn, error")
	cmd.PersistentFlags().String("log-format", "console", "The output format for logs: json, console")

	cmd.AddCommand(deltaCmd())
	cmd.AddCommand(queryCmd())

	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
