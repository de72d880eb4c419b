package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"form283/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "form283",
	Short: "Extract and validate Israeli National Insurance Form 283 scans",
	Long: `form283 processes scanned "bl/283" work-injury claim forms of the
Israeli National Insurance Institute.

It runs OCR on the scanned PDF, extracts the handwritten Hebrew fields
into structured JSON with an OpenAI model, and scores the result with a
deterministic quality validator that flags malformed ID numbers, phone
numbers, dates and postal codes.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("form283 CLI executed")

		fmt.Println("form283 - claim form extraction and validation")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
