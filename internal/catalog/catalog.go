package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"interp/internal/diag"
	"interp/internal/source"
)

// Catalog — набор именованных шаблонов сообщений из одного файла.
// Проблемы уровня файла (I/O, синтаксис, отсутствующие секции) — обычные
// ошибки Go; проблемы отдельных сообщений — диагностики из Validate.
type Catalog struct {
	Name     string
	Path     string
	Messages map[string]string
}

type tomlCatalog struct {
	Catalog  tomlCatalogMeta   `toml:"catalog"`
	Messages map[string]string `toml:"messages"`
}

type tomlCatalogMeta struct {
	Name string `toml:"name"`
}

type yamlCatalog struct {
	Catalog  yamlCatalogMeta   `yaml:"catalog"`
	Messages map[string]string `yaml:"messages"`
}

type yamlCatalogMeta struct {
	Name string `yaml:"name"`
}

// Load читает каталог, формат выбирается по расширению файла.
func Load(path string) (*Catalog, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return loadTOML(path)
	case ".yaml", ".yml":
		return loadYAML(path)
	default:
		return nil, fmt.Errorf("%s: unsupported catalog format %q (want .toml, .yaml or .yml)", path, filepath.Ext(path))
	}
}

func loadTOML(path string) (*Catalog, error) {
	var raw tomlCatalog
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("catalog") {
		return nil, fmt.Errorf("%s: missing [catalog]", path)
	}
	if !meta.IsDefined("catalog", "name") || strings.TrimSpace(raw.Catalog.Name) == "" {
		return nil, fmt.Errorf("%s: missing [catalog].name", path)
	}
	if !meta.IsDefined("messages") {
		return nil, fmt.Errorf("%s: missing [messages]", path)
	}
	return &Catalog{Name: raw.Catalog.Name, Path: path, Messages: raw.Messages}, nil
}

func loadYAML(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw yamlCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	if strings.TrimSpace(raw.Catalog.Name) == "" {
		return nil, fmt.Errorf("%s: missing catalog.name", path)
	}
	if raw.Messages == nil {
		return nil, fmt.Errorf("%s: missing messages", path)
	}
	return &Catalog{Name: raw.Catalog.Name, Path: path, Messages: raw.Messages}, nil
}

// IDs возвращает идентификаторы сообщений в отсортированном порядке.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.Messages))
	for id := range c.Messages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate проверяет сообщения каталога и отдаёт находки в reporter.
// Возвращает число диагностик уровня SevError. Находки несут нулевой
// спан: форматировать их нужно против FileSet, где первой записью
// добавлен сам файл каталога (Build делает это сам).
func (c *Catalog) Validate(r diag.Reporter) int {
	errs := 0
	for _, id := range c.IDs() {
		template := c.Messages[id]
		switch {
		case id == "":
			diag.ReportError(r, diag.CatalogEmptyMessageID, source.Span{},
				"empty message id").Emit()
			errs++
		case strings.ContainsFunc(id, unicode.IsSpace):
			diag.ReportError(r, diag.CatalogBadMessageID, source.Span{},
				fmt.Sprintf("message id %q contains whitespace", id)).Emit()
			errs++
		}
		if template == "" {
			diag.ReportInfo(r, diag.CatalogEmptyTemplate, source.Span{},
				fmt.Sprintf("message %q has an empty template", id)).Emit()
		}
	}
	return errs
}
