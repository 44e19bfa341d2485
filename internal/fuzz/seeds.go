package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
)

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	addTemplateSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.tmpl файлы
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".tmpl" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
	if err != nil {
		return
	}
}

// addTemplateSeeds закладывает по одному шаблону на каждую ветку сканера
// и классификатора плейсхолдеров.
func addTemplateSeeds(f *testing.F) {
	seeds := []string{
		"",
		"plain text without braces",
		"Hello, {name}!",
		"{a} {b} {a}",
		"{} and {} again",
		"{0} {2} {1}",
		"{count:03d} {ratio:.2f}",
		"{:>8}",
		"{{literal}} braces",
		"}}}",
		"{ }",
		"{0name}",
		"{a:{}}",
		"Bye, {who",
		"{",
		"Привет, {имя}!",
		"{x}\x00{y}",
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
