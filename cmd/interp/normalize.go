package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"interp/internal/diag"
	"interp/internal/driver"
	"interp/internal/pipeline"
	"interp/internal/render"
	"interp/internal/source"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [flags] [template|-]",
	Short: "Normalize a message template into positional form",
	Long: `Normalize rewrites {...} placeholders into canonical __N slots and collects
the named identifiers the template references. The template comes from the
argument, stdin (-), --file or --dir.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	normalizeCmd.Flags().String("file", "", "read the template from a file")
	normalizeCmd.Flags().String("dir", "", "normalize every *.tmpl file under a directory")
	normalizeCmd.Flags().Bool("explain", false, "show the slot table next to the result")
	normalizeCmd.Flags().Bool("nfc", false, "apply Unicode NFC normalization on load")
	normalizeCmd.Flags().Int("jobs", 0, "max parallel workers for --dir (0=auto)")
	normalizeCmd.Flags().Bool("no-cache", false, "disable the on-disk result cache")
	normalizeCmd.Flags().String("ui", "auto", "progress UI for --dir (auto|on|off)")
}

// normalizeOutput — сериализуемая форма результата для --format json.
type normalizeOutput struct {
	Normalized  string       `json:"normalized"`
	Identifiers []string     `json:"identifiers"`
	Slots       []slotOutput `json:"slots,omitempty"`
	Demotions   int          `json:"demotions,omitempty"`
	FromCache   bool         `json:"from_cache,omitempty"`
}

type slotOutput struct {
	Slot int    `json:"slot"`
	Name string `json:"name,omitempty"`
}

func runNormalize(cmd *cobra.Command, args []string) error {
	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	filePath, err := cmd.Flags().GetString("file")
	if err != nil {
		return fmt.Errorf("failed to get file flag: %w", err)
	}

	dirPath, err := cmd.Flags().GetString("dir")
	if err != nil {
		return fmt.Errorf("failed to get dir flag: %w", err)
	}

	if dirPath != "" && (filePath != "" || len(args) > 0) {
		return fmt.Errorf("--dir cannot be combined with --file or a template argument")
	}
	if filePath != "" && len(args) > 0 {
		return fmt.Errorf("pass a template argument or --file, not both")
	}

	if dirPath != "" {
		return runNormalizeDir(cmd, dirPath, format)
	}

	explain, err := cmd.Flags().GetBool("explain")
	if err != nil {
		return fmt.Errorf("failed to get explain flag: %w", err)
	}

	nfc, err := cmd.Flags().GetBool("nfc")
	if err != nil {
		return fmt.Errorf("failed to get nfc flag: %w", err)
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	// Нормализуем шаблон
	var result *driver.NormalizeResult
	if filePath != "" {
		cache, cacheErr := openRequestedCache(cmd)
		if cacheErr != nil {
			return cacheErr
		}
		result, err = driver.NormalizeFile(filePath, driver.NormalizeOptions{
			MaxDiagnostics: maxDiagnostics,
			NFC:            nfc,
			Cache:          cache,
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

	switch format {
	case "pretty":
		printNormalizePretty(os.Stdout, result.Output, explain)
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(makeNormalizeOutput(result.Output, explain, result.FromCache)); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}

// runNormalizeDir нормализует каталог шаблонов через pipeline,
// при необходимости показывая TUI-прогресс.
func runNormalizeDir(cmd *cobra.Command, dir, format string) error {
	explain, err := cmd.Flags().GetBool("explain")
	if err != nil {
		return fmt.Errorf("failed to get explain flag: %w", err)
	}

	nfc, err := cmd.Flags().GetBool("nfc")
	if err != nil {
		return fmt.Errorf("failed to get nfc flag: %w", err)
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	cache, err := openRequestedCache(cmd)
	if err != nil {
		return err
	}

	req := pipeline.NormalizeRequest{
		Dir: dir,
		Options: driver.NormalizeOptions{
			MaxDiagnostics: maxDiagnostics,
			NFC:            nfc,
			Cache:          cache,
		},
		Jobs: jobs,
	}

	var outcome pipeline.NormalizeOutcome
	if shouldUseTUI(mode) {
		files, listErr := driver.ListTemplateFiles(dir)
		if listErr != nil {
			return fmt.Errorf("failed to list templates: %w", listErr)
		}
		display, _ := pipeline.DisplayNames(files, dir)
		outcome, err = runNormalizeWithUI(cmd.Context(), "normalize "+dir, display, req)
	} else {
		outcome, err = pipeline.RunNormalize(cmd.Context(), req)
	}
	if err != nil {
		return fmt.Errorf("normalization failed: %w", err)
	}

	exit := 0
	merged := diag.NewBag(maxDiagnostics)
	for _, r := range outcome.Results {
		if r.Bag.HasErrors() {
			exit = 1
		}
		merged.Merge(r.Bag)
	}
	merged.Sort()
	if err := echoDiagnostics(cmd, merged, outcome.FileSet); err != nil {
		return err
	}

	switch format {
	case "pretty":
		for idx, r := range outcome.Results {
			if idx > 0 {
				fmt.Fprintln(os.Stdout)
			}
			fmt.Fprintf(os.Stdout, "== %s ==\n", displayResultPath(outcome.FileSet, r))
			printNormalizePretty(os.Stdout, r.Output, explain)
		}
	case "json":
		output := make(map[string]normalizeOutput, len(outcome.Results))
		for _, r := range outcome.Results {
			output[displayResultPath(outcome.FileSet, r)] = makeNormalizeOutput(r.Output, explain, r.FromCache)
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if showTimings {
		printStageTimings(os.Stderr, outcome.Timings)
	}

	if exit != 0 {
		return silentExit(cmd)
	}
	return nil
}

func makeNormalizeOutput(out render.Output, explain, fromCache bool) normalizeOutput {
	res := normalizeOutput{
		Normalized:  out.Normalized,
		Identifiers: out.Identifiers,
		Demotions:   out.Demotions,
		FromCache:   fromCache,
	}
	// Стабильный вывод: [] вместо null
	if res.Identifiers == nil {
		res.Identifiers = []string{}
	}
	if explain {
		res.Slots = make([]slotOutput, 0, len(out.Slots))
		for _, s := range out.Slots {
			res.Slots = append(res.Slots, slotOutput{Slot: s.Index, Name: s.Name})
		}
	}
	return res
}

// printNormalizePretty печатает нормализованный шаблон и, по запросу,
// идентификаторы со слотовой таблицей.
func printNormalizePretty(w io.Writer, out render.Output, explain bool) {
	fmt.Fprintln(w, out.Normalized)
	if !explain {
		return
	}
	if len(out.Identifiers) == 0 {
		fmt.Fprintln(w, "identifiers: (none)")
	} else {
		fmt.Fprintf(w, "identifiers: %s\n", strings.Join(out.Identifiers, ", "))
	}
	if len(out.Slots) == 0 {
		fmt.Fprintln(w, "slots: (none)")
		return
	}
	fmt.Fprintln(w, "slots:")
	for _, s := range out.Slots {
		name := s.Name
		if name == "" {
			name = "(implicit)"
		}
		fmt.Fprintf(w, "  __%d  %s\n", s.Index, name)
	}
}

func displayResultPath(fs *source.FileSet, r driver.NormalizeDirResult) string {
	return fs.Get(r.FileID).FormatPath("auto", fs.BaseDir())
}
