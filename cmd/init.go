package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/shopchat/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize shopchat configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure shopchat and generates a .shopchat.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
