package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"interp/internal/diag"
	"interp/internal/diagfmt"
	"interp/internal/driver"
	"interp/internal/source"
)

// diskCacheApp — имя приложения для каталога дискового кэша.
const diskCacheApp = "interp"

// readInlineTemplate возвращает шаблон из позиционного аргумента
// или stdin ("-").
func readInlineTemplate(args []string) (string, []byte, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return "<stdin>", data, nil
	}
	if len(args) == 1 {
		return "<arg>", []byte(args[0]), nil
	}
	return "", nil, fmt.Errorf("missing template: pass it as an argument, - for stdin, or use --file")
}

// useColorAt решает, нужен ли цвет, по флагу --color и дескриптору вывода.
func useColorAt(cmd *cobra.Command, out *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(out)), nil
}

// echoDiagnostics печатает диагностики в stderr, не трогая основной вывод.
// Учитывает --quiet; ошибки и предупреждения печатаются только при наличии.
func echoDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || (!bag.HasErrors() && !bag.HasWarnings()) {
		return nil
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if quiet {
		return nil
	}
	useColor, err := useColorAt(cmd, os.Stderr)
	if err != nil {
		return err
	}
	diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
		Color:   useColor,
		Context: 2,
	})
	return nil
}

// openRequestedCache открывает дисковый кэш результатов, если команда
// не запущена с --no-cache. Ошибка открытия не фатальна: работаем без кэша.
func openRequestedCache(cmd *cobra.Command) (*driver.DiskCache, error) {
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if noCache {
		return nil, nil
	}
	cache, err := driver.OpenDiskCache(diskCacheApp)
	if err != nil {
		return nil, nil
	}
	return cache, nil
}

// silentExit подавляет вывод cobra: всё нужное уже напечатано диагностикой.
func silentExit(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return fmt.Errorf("")
}
