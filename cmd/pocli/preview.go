package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"purchase-orders-backend/config"
	"purchase-orders-backend/purchase_orders/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Validate a purchase order spreadsheet and print its preview",
	Example: `  # Print the first rows and every validation error as JSON
  pocli preview orders.xlsx

  # Only report errors
  pocli preview orders.csv --errors-only`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().Bool("errors-only", false, "Print validation errors without preview records")
}

// previewOutput is what the preview command prints.
type previewOutput struct {
	FileName  string                     `json:"file_name"`
	TotalRows int                        `json:"total_rows"`
	Records   []services.PreviewRecord   `json:"records,omitempty"`
	Errors    []services.ValidationError `json:"errors"`
}

func newLocalImportService(deps services.ImportServiceDeps) *services.ImportService {
	return services.NewImportService(services.DefaultColumnMapping(), services.NewDateNormalizerFromEnv(), deps)
}

func runPreview(cmd *cobra.Command, args []string) error {
	errorsOnly, _ := cmd.Flags().GetBool("errors-only")
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

	svc := newLocalImportService(services.ImportServiceDeps{})
	_, _, raws, err := svc.Parse(filepath.Base(path), info.Size(), f)
	if err != nil {
		return err
	}

	rows := svc.Mapping.AdaptAll(raws)
	out := previewOutput{
		FileName:  filepath.Base(path),
		TotalRows: len(raws),
		Errors:    svc.Validator.Validate(rows),
	}
	if !errorsOnly {
		out.Records = svc.Normalizer.PreviewRows(rows)
	}

	config.Logger.Info("Previewed purchase order file",
		zap.String("file", path),
		zap.Int("rows", len(raws)),
		zap.Int("validation_errors", len(out.Errors)),
	)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	if len(out.Errors) > 0 {
		return fmt.Errorf("%s", services.ErrorSummary(out.Errors))
	}
	return nil
}
