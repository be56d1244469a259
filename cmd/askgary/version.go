package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garyyong/askgary/internal/core"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", core.AppName, core.AppVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
