package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"interp/internal/diag"
)

func writeCatalog(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadTOML(t *testing.T) {
	path := writeCatalog(t, t.TempDir(), "msgs.toml", `
[catalog]
name = "demo"

[messages]
greeting = "Hello, {name}!"
farewell = "Bye, {who}."
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.Name != "demo" {
		t.Errorf("Name = %q, want %q", c.Name, "demo")
	}
	if c.Path != path {
		t.Errorf("Path = %q, want %q", c.Path, path)
	}
	if len(c.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(c.Messages))
	}
	if c.Messages["greeting"] != "Hello, {name}!" {
		t.Errorf("greeting = %q", c.Messages["greeting"])
	}
	if got := c.IDs(); got[0] != "farewell" || got[1] != "greeting" {
		t.Errorf("IDs not sorted: %v", got)
	}
}

func TestLoadTOML_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing catalog section",
			content: "[messages]\nhi = \"Hi\"\n",
			wantErr: "missing [catalog]",
		},
		{
			name:    "missing catalog name",
			content: "[catalog]\n[messages]\nhi = \"Hi\"\n",
			wantErr: "missing [catalog].name",
		},
		{
			name:    "blank catalog name",
			content: "[catalog]\nname = \"  \"\n[messages]\nhi = \"Hi\"\n",
			wantErr: "missing [catalog].name",
		},
		{
			name:    "missing messages section",
			content: "[catalog]\nname = \"demo\"\n",
			wantErr: "missing [messages]",
		},
		{
			name:    "broken syntax",
			content: "[catalog\nname = demo",
			wantErr: "failed to parse TOML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCatalog(t, t.TempDir(), "msgs.toml", tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
			// Ошибка должна называть файл
			if !strings.Contains(err.Error(), path) {
				t.Errorf("error %q does not mention the file path", err)
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeCatalog(t, t.TempDir(), "msgs.yaml", `
catalog:
  name: demo
messages:
  greeting: "Hello, {name}!"
  counter: "You have {} new messages"
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.Name != "demo" {
		t.Errorf("Name = %q, want %q", c.Name, "demo")
	}
	if c.Messages["counter"] != "You have {} new messages" {
		t.Errorf("counter = %q", c.Messages["counter"])
	}
}

func TestLoadYML(t *testing.T) {
	// .yml — тот же формат, что и .yaml
	path := writeCatalog(t, t.TempDir(), "msgs.yml", "catalog:\n  name: demo\nmessages:\n  hi: \"Hi\"\n")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.Name != "demo" {
		t.Errorf("Name = %q", c.Name)
	}
}

func TestLoadYAML_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: "messages:\n  hi: Hi\n",
			wantErr: "missing catalog.name",
		},
		{
			name:    "missing messages",
			content: "catalog:\n  name: demo\n",
			wantErr: "missing messages",
		},
		{
			name:    "broken syntax",
			content: "catalog: [\n",
			wantErr: "failed to parse YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCatalog(t, t.TempDir(), "msgs.yaml", tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeCatalog(t, t.TempDir(), "msgs.ini", "[catalog]\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "unsupported catalog format") {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	c := &Catalog{
		Name: "demo",
		Path: "msgs.toml",
		Messages: map[string]string{
			"":        "orphan",
			"bad id":  "has space",
			"tab\tid": "has tab",
			"empty":   "",
			"ok":      "Hello, {name}!",
		},
	}

	bag := diag.NewBag(16)
	errs := c.Validate(diag.BagReporter{Bag: bag})
	if errs != 3 {
		t.Fatalf("Validate = %d errors, want 3", errs)
	}

	counts := map[diag.Code]int{}
	for _, d := range bag.Items() {
		counts[d.Code]++
		switch d.Code {
		case diag.CatalogEmptyMessageID, diag.CatalogBadMessageID:
			if d.Severity != diag.SevError {
				t.Errorf("%v: severity = %v, want SevError", d.Code, d.Severity)
			}
		case diag.CatalogEmptyTemplate:
			if d.Severity != diag.SevInfo {
				t.Errorf("%v: severity = %v, want SevInfo", d.Code, d.Severity)
			}
		}
	}
	if counts[diag.CatalogEmptyMessageID] != 1 {
		t.Errorf("empty id diagnostics = %d, want 1", counts[diag.CatalogEmptyMessageID])
	}
	if counts[diag.CatalogBadMessageID] != 2 {
		t.Errorf("bad id diagnostics = %d, want 2", counts[diag.CatalogBadMessageID])
	}
	if counts[diag.CatalogEmptyTemplate] != 1 {
		t.Errorf("empty template diagnostics = %d, want 1", counts[diag.CatalogEmptyTemplate])
	}
}

func TestValidate_Clean(t *testing.T) {
	c := &Catalog{
		Name:     "demo",
		Messages: map[string]string{"greeting": "Hello, {name}!"},
	}
	bag := diag.NewBag(8)
	if errs := c.Validate(diag.BagReporter{Bag: bag}); errs != 0 {
		t.Fatalf("Validate = %d errors, want 0", errs)
	}
	if bag.Len() != 0 {
		t.Errorf("expected empty bag, got %+v", bag.Items())
	}
}
