package cmd

import (
	"fmt"
	"os"

	"skinledger/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "skinledger",
	Short: "Skin Ledger Service",
	Long: `Skin Ledger reconciles a game-item inventory against a cell-addressed
ledger, enriching rows with classification, detail and market price data.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format at debug level: readable output with ISO8601
		// timestamps, since this runs interactively.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
