package main

import (
	"fmt"
	"os"

	"purchase-orders-backend/purchase_orders/services"

	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write the purchase order import template workbook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := services.WriteTemplate(f, services.DefaultColumnMapping()); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Template written to %s\n", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(templateCmd)

	templateCmd.Flags().StringP("output", "o", services.TemplateFileName, "Output file path")
}
