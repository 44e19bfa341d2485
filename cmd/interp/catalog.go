package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"interp/internal/catalog"
	"interp/internal/diag"
	"interp/internal/diagfmt"
	"interp/internal/pipeline"
	"interp/internal/source"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Work with message catalogs",
	Long:  `Catalog commands load TOML or YAML message catalogs, validate them and build normalized output`,
}

var catalogBuildCmd = &cobra.Command{
	Use:   "build [flags] <catalog.(toml|yaml|yml)>",
	Short: "Normalize every message in a catalog",
	Long:  `Build normalizes every message in a catalog and writes the result as TOML or JSON`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogBuild,
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check [flags] <catalog.(toml|yaml|yml)>",
	Short: "Validate catalog message ids and templates",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogCheck,
}

func init() {
	catalogCmd.AddCommand(catalogBuildCmd)
	catalogCmd.AddCommand(catalogCheckCmd)

	catalogBuildCmd.Flags().String("format", "toml", "output format (toml|json)")
	catalogBuildCmd.Flags().String("out", "", "write the normalized catalog to a file instead of stdout")
	catalogBuildCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	catalogBuildCmd.Flags().Bool("no-cache", false, "disable the on-disk result cache")
	catalogBuildCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
}

func runCatalogBuild(cmd *cobra.Command, args []string) error {
	catalogPath := args[0]

	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "toml" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
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

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	cache, err := openRequestedCache(cmd)
	if err != nil {
		return err
	}

	req := pipeline.CatalogRequest{
		Path: catalogPath,
		Options: catalog.BuildOptions{
			MaxDiagnostics: maxDiagnostics,
			Jobs:           jobs,
			Cache:          cache,
		},
	}

	var outcome pipeline.CatalogOutcome
	if shouldUseTUI(mode) {
		// Для модели прогресса нужен список сообщений до запуска
		c, loadErr := catalog.Load(catalogPath)
		if loadErr != nil {
			return fmt.Errorf("failed to load catalog: %w", loadErr)
		}
		req.Catalog = c
		outcome, err = runCatalogWithUI(cmd.Context(), "catalog "+c.Name, c.IDs(), req)
	} else {
		outcome, err = pipeline.RunCatalog(cmd.Context(), req)
	}
	if err != nil {
		return fmt.Errorf("catalog build failed: %w", err)
	}

	build := outcome.Build

	// Выводим диагностику в stderr, если есть
	if err := echoDiagnostics(cmd, build.Bag, build.FileSet); err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	var outFile *os.File
	if outPath != "" {
		outFile, err = os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create %q: %w", outPath, err)
		}
		w = outFile
	}

	encodeStart := time.Now()
	switch format {
	case "toml":
		err = catalog.WriteTOML(w, build)
	case "json":
		err = catalog.WriteJSON(w, build)
	}
	if outFile != nil {
		if closeErr := outFile.Close(); err == nil {
			err = closeErr
		}
	}
	if err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	outcome.Timings.Set(pipeline.StageEncode, time.Since(encodeStart))

	if outPath != "" && !quiet {
		fmt.Fprintf(os.Stdout, "wrote %s\n", outPath)
	}

	if showTimings {
		printStageTimings(os.Stderr, outcome.Timings)
	}

	// Ошибки валидации каталога дают ненулевой выход
	if build.Bag.HasErrors() {
		return silentExit(cmd)
	}
	return nil
}

func runCatalogCheck(cmd *cobra.Command, args []string) error {
	catalogPath := args[0]

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	c, err := catalog.Load(catalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	bag := diag.NewBag(maxDiagnostics)
	errs := c.Validate(diag.BagReporter{Bag: bag})
	bag.Sort()

	// Якорная запись: находки валидации несут нулевой спан
	fs := source.NewFileSet()
	fs.AddVirtual(c.Path, nil)

	useColor, err := useColorAt(cmd, os.Stdout)
	if err != nil {
		return err
	}
	diagfmt.Pretty(os.Stdout, bag, fs, diagfmt.PrettyOpts{
		Color:   useColor,
		Context: -1,
	})

	if !quiet {
		fmt.Fprintf(os.Stdout, "%s: %d messages, %d findings\n", c.Name, len(c.Messages), bag.Len())
	}

	if errs > 0 {
		return silentExit(cmd)
	}
	return nil
}
