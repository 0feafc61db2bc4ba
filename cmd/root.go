package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "shopchat",
	Short: "LLM-backed customer support chat for an e-commerce catalog",
	Long: `Shopchat runs a customer support chat service grounded in a retail
catalog. Incoming messages are classified, matched against products,
orders and inventory in SQLite, and answered by an LLM with the catalog
facts embedded in the prompt.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".shopchat.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
