package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"interp/internal/driver"
)

var identsCmd = &cobra.Command{
	Use:   "idents [flags] [template|-]",
	Short: "List the named identifiers a template references",
	Long:  `Idents prints the sorted, deduplicated identifiers referenced by named placeholders`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIdents,
}

func init() {
	identsCmd.Flags().String("format", "lines", "output format (lines|json)")
	identsCmd.Flags().String("file", "", "read the template from a file")
	identsCmd.Flags().Bool("nfc", false, "apply Unicode NFC normalization on load")
}

func runIdents(cmd *cobra.Command, args []string) error {
	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	filePath, err := cmd.Flags().GetString("file")
	if err != nil {
		return fmt.Errorf("failed to get file flag: %w", err)
	}
	if filePath != "" && len(args) > 0 {
		return fmt.Errorf("pass a template argument or --file, not both")
	}

	nfc, err := cmd.Flags().GetBool("nfc")
	if err != nil {
		return fmt.Errorf("failed to get nfc flag: %w", err)
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	var result *driver.NormalizeResult
	if filePath != "" {
		result, err = driver.NormalizeFile(filePath, driver.NormalizeOptions{
			MaxDiagnostics: maxDiagnostics,
			NFC:            nfc,
		})
		if err != nil {
			return fmt.Errorf("normalization failed: %w", err)
		}
	} else {
		name, data, readErr := readInlineTemplate(args)
		if readErr != nil {
			return readErr
		}
		result = driver.NormalizeString(name, data, maxDiagnostics)
	}

	// Выводим диагностику в stderr, если есть
	if err := echoDiagnostics(cmd, result.Bag, result.FileSet); err != nil {
		return err
	}

	idents := result.Output.Identifiers
	switch format {
	case "lines":
		for _, id := range idents {
			fmt.Fprintln(os.Stdout, id)
		}
	case "json":
		// Стабильный вывод: [] вместо null
		if idents == nil {
			idents = []string{}
		}
		encoder := json.NewEncoder(os.Stdout)
		if err := encoder.Encode(idents); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}
