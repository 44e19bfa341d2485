package catalog

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// tomlOutput — форма выходного TOML-каталога. Ключи карт энкодер
// BurntSushi пишет в отсортированном порядке, вывод детерминирован.
type tomlOutput struct {
	Catalog  tomlOutputMeta            `toml:"catalog"`
	Messages map[string]tomlOutputItem `toml:"messages"`
}

type tomlOutputMeta struct {
	Name string `toml:"name"`
}

type tomlOutputItem struct {
	Normalized  string   `toml:"normalized"`
	Identifiers []string `toml:"identifiers"`
	Demotions   int      `toml:"demotions,omitempty"`
}

type jsonOutput struct {
	Catalog  jsonOutputMeta `json:"catalog"`
	Messages []jsonMessage  `json:"messages"`
}

type jsonOutputMeta struct {
	Name string `json:"name"`
}

type jsonMessage struct {
	ID          string   `json:"id"`
	Normalized  string   `json:"normalized"`
	Identifiers []string `json:"identifiers"`
	Demotions   int      `json:"demotions,omitempty"`
}

// WriteTOML пишет нормализованный каталог в формате TOML.
func WriteTOML(w io.Writer, res *BuildResult) error {
	out := tomlOutput{
		Catalog:  tomlOutputMeta{Name: res.Name},
		Messages: make(map[string]tomlOutputItem, len(res.Messages)),
	}
	for _, m := range res.Messages {
		out.Messages[m.ID] = tomlOutputItem{
			Normalized:  m.Normalized,
			Identifiers: m.Identifiers,
			Demotions:   m.Demotions,
		}
	}
	if err := toml.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("failed to encode TOML: %w", err)
	}
	return nil
}

// WriteJSON пишет нормализованный каталог в формате JSON.
// Сообщения идут массивом в порядке сортировки по id.
func WriteJSON(w io.Writer, res *BuildResult) error {
	out := jsonOutput{
		Catalog:  jsonOutputMeta{Name: res.Name},
		Messages: make([]jsonMessage, 0, len(res.Messages)),
	}
	for _, m := range res.Messages {
		idents := m.Identifiers
		if idents == nil {
			// Стабильный вывод: [] вместо null
			idents = []string{}
		}
		out.Messages = append(out.Messages, jsonMessage{
			ID:          m.ID,
			Normalized:  m.Normalized,
			Identifiers: idents,
			Demotions:   m.Demotions,
		})
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
