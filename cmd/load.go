package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/shopchat/internal/config"
	"github.com/ziadkadry99/shopchat/internal/db"
	"github.com/ziadkadry99/shopchat/internal/loader"
	"github.com/ziadkadry99/shopchat/internal/progress"
	"github.com/ziadkadry99/shopchat/internal/store"
)

var loadCmd = &cobra.Command{
	Use:   "load <dataset-dir>",
	Short: "Import the retail CSV dataset into the catalog database",
	Long: `Imports distribution centers, products, users, orders, order items and
inventory items from the CSV files in the given directory. Large files
are sampled; imported users get a default password.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		im := loader.NewImporter(store.NewLoader(database), progress.NewReporter())
		summary, err := im.Run(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("importing dataset: %w", err)
		}

		fmt.Fprintln(os.Stderr, "Import complete:")
		fmt.Fprintf(os.Stderr, "  Distribution centers: %d\n", summary.DistributionCenters)
		fmt.Fprintf(os.Stderr, "  Products:             %d\n", summary.Products)
		fmt.Fprintf(os.Stderr, "  Users:                %d\n", summary.Users)
		fmt.Fprintf(os.Stderr, "  Orders:               %d\n", summary.Orders)
		fmt.Fprintf(os.Stderr, "  Order items:          %d\n", summary.OrderItems)
		fmt.Fprintf(os.Stderr, "  Inventory items:      %d\n", summary.InventoryItems)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
