package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"purchase-orders-backend/config"
	customers_repositories "purchase-orders-backend/customers/repositories"
	purchase_orders_repositories "purchase-orders-backend/purchase_orders/repositories"
	"purchase-orders-backend/purchase_orders/services"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import every row of a purchase order spreadsheet into the database",
	Long: `Import validates the whole file first and refuses it when any row is
invalid. Valid files are committed row by row; the run is recorded in the
import history like an upload through the API.

Required environment variables:
  DB_HOST, DB_PORT, POSTGRES_USER, POSTGRES_PASSWORD, POSTGRES_DB`,
	Example: `  pocli import orders.xlsx --user procurement@example.com`,
	Args:    cobra.ExactArgs(1),
	RunE:    runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("user", "cli", "Recorded as the creator of the imported orders")
}

func runImport(cmd *cobra.Command, args []string) error {
	user, _ := cmd.Flags().GetString("user")
	path := args[0]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}

	db := config.ConfigureDatabase()
	orderRepo := purchase_orders_repositories.NewPurchaseOrderRepository(db)
	svc := newLocalImportService(services.ImportServiceDeps{
		Customers: customers_repositories.NewCustomerRepository(db),
		Orders:    orderRepo,
		Runs:      orderRepo,
	})

	result, err := svc.ImportFile(cmd.Context(), filepath.Base(path), info.Size(), f, user)
	var validation *services.CommitValidationError
	if errors.As(err, &validation) {
		for _, msg := range services.Messages(validation.Errors) {
			fmt.Fprintln(cmd.ErrOrStderr(), msg)
		}
		return err
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
