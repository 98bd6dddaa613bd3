package main

import (
	"fmt"
	"os"

	"purchase-orders-backend/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "pocli",
	Short: "Purchase order import tools",
	Long: `pocli checks and imports purchase order spreadsheets (.xlsx or .csv)
from the command line, using the same validation and commit rules as the
HTTP import endpoints.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.InitLogger()
		if err := godotenv.Load(".env"); err != nil {
			config.Logger.Debug("No .env file loaded", zap.Error(err))
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		config.Logger.Error("Command execution failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
