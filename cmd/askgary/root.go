package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/garyyong/askgary/internal/config"
	"github.com/garyyong/askgary/pkg/log"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "askgary",
	Short: "AskGary — a personal RAG assistant backend",
	Long:  `AskGary answers questions about Gary using retrieval-augmented generation, with per-visitor memory and admin analytics.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
