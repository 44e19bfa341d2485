package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"interp/internal/diag"
	"interp/internal/diagfmt"
	"interp/internal/driver"
	"interp/internal/source"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose [flags] <file.tmpl|directory>",
	Short: "Run diagnostics on a template file or directory",
	Long:  `Diagnose reports unterminated and malformed placeholders in a template file or all *.tmpl files within a directory`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDiagnose,
}

// init registers CLI flags for the diagnose command used by runDiagnose.
// It configures output format, the diagnostic stage, warning handling,
// concurrency, note/suggestion inclusion, and path rendering.
func init() {
	diagnoseCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	diagnoseCmd.Flags().String("stage", "all", "diagnostic stage to run (scan|render|all)")
	diagnoseCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	diagnoseCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	diagnoseCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	diagnoseCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagnoseCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	diagnoseCmd.Flags().Bool("preview", false, "preview fixes without modifying files")
	diagnoseCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	diagnoseCmd.Flags().Bool("nfc", false, "apply Unicode NFC normalization on load")
}

// runDiagnose executes the "diagnose" command: it parses command flags, runs
// diagnostics for the provided path (single file or directory), formats the
// results in the chosen output format, and exits with a non-zero status when
// any diagnostics contain errors.
func runDiagnose(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	stageStr, err := cmd.Flags().GetString("stage")
	if err != nil {
		return fmt.Errorf("failed to get stage flag: %w", err)
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}

	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}

	if noWarnings && warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}

	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}

	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}

	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}

	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}

	nfc, err := cmd.Flags().GetBool("nfc")
	if err != nil {
		return fmt.Errorf("failed to get nfc flag: %w", err)
	}

	// Конвертируем строку стадии в тип
	var stage driver.DiagnoseStage
	switch stageStr {
	case "scan":
		stage = driver.DiagnoseStageScan
	case "render":
		stage = driver.DiagnoseStageRender
	case "all":
		stage = driver.DiagnoseStageAll
	default:
		return fmt.Errorf("unknown stage value: %s", stageStr)
	}

	// Создаём опции диагностики
	opts := driver.DiagnoseOptions{
		Stage:            stage,
		MaxDiagnostics:   maxDiagnostics,
		NFC:              nfc,
		IgnoreWarnings:   noWarnings,
		WarningsAsErrors: warningsAsErrors,
		EnableTimings:    showTimings,
	}

	st, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	showFixes := suggest || preview

	useColor, err := useColorAt(cmd, os.Stdout)
	if err != nil {
		return err
	}

	prettyOpts := diagfmt.PrettyOpts{
		Color:       useColor,
		Context:     2,
		PathMode:    pathMode,
		ShowNotes:   withNotes,
		ShowFixes:   showFixes,
		ShowPreview: preview,
	}
	jsonOpts := diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         pathMode,
		IncludeNotes:     withNotes,
		IncludeFixes:     showFixes,
		IncludePreviews:  preview,
	}

	runFile := func() (int, error) {
		result, err := driver.DiagnoseWithOptions(filePath, opts)
		if err != nil {
			return 0, fmt.Errorf("diagnosis failed: %w", err)
		}

		exit := 0
		if result.Bag.HasErrors() {
			exit = 1
		}

		switch format {
		case "pretty":
			diagfmt.Pretty(os.Stdout, result.Bag, result.FileSet, prettyOpts)
		case "short":
			output := diag.FormatShortDiagnostics(result.Bag.Items(), result.FileSet, withNotes)
			if output != "" {
				fmt.Fprintln(os.Stdout, output)
			}
		case "json":
			if err := diagfmt.JSON(os.Stdout, result.Bag, result.FileSet, jsonOpts); err != nil {
				return 0, fmt.Errorf("failed to format diagnostics: %w", err)
			}
		default:
			return 0, fmt.Errorf("unknown format: %s", format)
		}

		return exit, nil
	}

	runDir := func() (int, error) {
		jobs, err := cmd.Flags().GetInt("jobs")
		if err != nil {
			return 0, fmt.Errorf("failed to get jobs flag: %w", err)
		}

		fs, results, err := driver.DiagnoseDir(cmd.Context(), filePath, opts, jobs)
		if err != nil {
			return 0, fmt.Errorf("diagnosis failed: %w", err)
		}

		exit := 0
		for _, r := range results {
			if r.Bag.HasErrors() {
				exit = 1
				break
			}
		}

		switch format {
		case "short":
			allDiagnostics := make([]diag.Diagnostic, 0, len(results))
			for _, r := range results {
				allDiagnostics = append(allDiagnostics, r.Bag.Items()...)
			}
			output := diag.FormatShortDiagnostics(allDiagnostics, fs, withNotes)
			if output != "" {
				fmt.Fprintln(os.Stdout, output)
			}
		case "pretty":
			for idx, r := range results {
				if idx > 0 {
					fmt.Fprintln(os.Stdout)
				}
				fmt.Fprintf(os.Stdout, "== %s ==\n", diagnoseDisplayPath(fs, r, fullPath))
				diagfmt.Pretty(os.Stdout, r.Bag, fs, prettyOpts)
			}
		case "json":
			output := make(map[string]diagfmt.DiagnosticsOutput, len(results))
			for _, r := range results {
				output[diagnoseDisplayPath(fs, r, fullPath)] = diagfmt.BuildDiagnosticsOutput(r.Bag, fs, jsonOpts)
			}
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(output); err != nil {
				return 0, fmt.Errorf("failed to encode diagnostics output: %w", err)
			}
		default:
			return 0, fmt.Errorf("unknown format: %s", format)
		}

		return exit, nil
	}

	var (
		exitCode  int
		resultErr error
	)
	if !st.IsDir() {
		exitCode, resultErr = runFile()
	} else {
		exitCode, resultErr = runDir()
	}

	if resultErr != nil {
		return resultErr
	}
	if exitCode != 0 {
		// Диагностика уже напечатана, подавляем вывод cobra
		return silentExit(cmd)
	}
	return nil
}

func diagnoseDisplayPath(fs *source.FileSet, r driver.DiagnoseDirResult, fullPath bool) string {
	mode := "auto"
	if fullPath {
		mode = "absolute"
	}
	return fs.Get(r.FileID).FormatPath(mode, fs.BaseDir())
}
