package main

import (
	"fmt"
	"strings"

	"github.com/awkspace/runfile"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of runfile",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("runfile version %s\n", strings.TrimSpace(runfile.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
