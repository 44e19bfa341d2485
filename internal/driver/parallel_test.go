package driver

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"interp/internal/diag"
)

func TestListTemplateFiles(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "b.tmpl", "b")
	writeTemplate(t, dir, "a.tmpl", "a")
	writeTemplate(t, dir, "notes.txt", "not a template")

	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeTemplate(t, sub, "c.tmpl", "c")

	files, err := ListTemplateFiles(dir)
	if err != nil {
		t.Fatalf("ListTemplateFiles error: %v", err)
	}

	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d: %v", len(files), files)
	}
	// Отсортированный детерминированный порядок
	if filepath.Base(files[0]) != "a.tmpl" || filepath.Base(files[1]) != "b.tmpl" {
		t.Errorf("unexpected order: %v", files)
	}
	if filepath.Base(files[2]) != "c.tmpl" {
		t.Errorf("expected nested file last, got %v", files)
	}
}

func TestNormalizeDir(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "01_hello.tmpl", "Hello, {name}!")
	writeTemplate(t, dir, "02_dup.tmpl", "Hello, {name}!")
	writeTemplate(t, dir, "03_bad.tmpl", "count: { }")

	// jobs=1: файлы обрабатываются в порядке списка, повтор гарантированно
	// попадает на memo-кэш
	fs, results, err := NormalizeDir(context.Background(), dir, NormalizeOptions{MaxDiagnostics: 10}, 1)
	if err != nil {
		t.Fatalf("NormalizeDir error: %v", err)
	}
	if fs == nil {
		t.Fatal("expected FileSet")
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	first := results[0]
	if first.FromCache {
		t.Error("first occurrence must be parsed, not cached")
	}
	if first.Output.Normalized != "Hello, __0!" {
		t.Errorf("Normalized mismatch: %q", first.Output.Normalized)
	}

	dup := results[1]
	if !dup.FromCache {
		t.Error("identical content must reuse the first parse")
	}
	if dup.Output.Normalized != first.Output.Normalized {
		t.Errorf("duplicate output diverged: %q", dup.Output.Normalized)
	}

	bad := results[2]
	if bad.FromCache {
		t.Error("template with warnings must not be served from cache")
	}
	if !bad.Bag.HasWarnings() {
		t.Errorf("expected malformed warning, got %+v", bad.Bag.Items())
	}
	if bad.Output.Normalized != "count: { }" {
		t.Errorf("Normalized mismatch: %q", bad.Output.Normalized)
	}
}

func TestNormalizeDir_Empty(t *testing.T) {
	fs, results, err := NormalizeDir(context.Background(), t.TempDir(), NormalizeOptions{MaxDiagnostics: 10}, 0)
	if err != nil {
		t.Fatalf("NormalizeDir error: %v", err)
	}
	if fs == nil {
		t.Fatal("expected FileSet even for empty dir")
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestNormalizeDir_LoadError(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "ok.tmpl", "fine {x}")

	// Битая символическая ссылка: WalkDir её перечислит, чтение упадёт
	if err := os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "broken.tmpl")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	_, results, err := NormalizeDir(context.Background(), dir, NormalizeOptions{MaxDiagnostics: 10}, 1)
	if err != nil {
		t.Fatalf("NormalizeDir error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// broken.tmpl сортируется перед ok.tmpl
	broken := results[0]
	if filepath.Base(broken.Path) != "broken.tmpl" {
		t.Fatalf("unexpected order: %+v", results)
	}
	foundIO := false
	for _, d := range broken.Bag.Items() {
		if d.Code == diag.IOLoadFileError && d.Severity == diag.SevError {
			foundIO = true
			break
		}
	}
	if !foundIO {
		t.Errorf("expected IO error diagnostic, got %+v", broken.Bag.Items())
	}

	ok := results[1]
	if ok.Output.Normalized != "fine __0" {
		t.Errorf("healthy file must still normalize: %q", ok.Output.Normalized)
	}
}

func TestNormalizeDir_Observer(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "a.tmpl", "Hi {x}")
	writeTemplate(t, dir, "b.tmpl", "Hi {x}")

	var (
		mu     sync.Mutex
		events []PhaseEvent
	)
	opts := NormalizeOptions{
		MaxDiagnostics: 10,
		Observer: func(ev PhaseEvent) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		},
	}

	_, _, err := NormalizeDir(context.Background(), dir, opts, 1)
	if err != nil {
		t.Fatalf("NormalizeDir error: %v", err)
	}

	// Для каждого файла: PhaseStart и PhaseEnd
	starts := map[string]int{}
	ends := map[string]int{}
	var cached int
	for _, ev := range events {
		switch ev.Status {
		case PhaseStart:
			starts[ev.Name]++
		case PhaseEnd:
			ends[ev.Name]++
			if ev.FromCache {
				cached++
			}
		}
	}
	for _, name := range []string{"a.tmpl", "b.tmpl"} {
		path := filepath.Join(dir, name)
		if starts[path] != 1 || ends[path] != 1 {
			t.Errorf("%s: start=%d end=%d, want 1/1", name, starts[path], ends[path])
		}
	}
	// jobs=1: второй файл с тем же содержимым приходит из memo-кэша
	if cached != 1 {
		t.Errorf("expected exactly one cached completion, got %d", cached)
	}
}

func TestNormalizeDir_Canceled(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.tmpl", "b.tmpl", "c.tmpl"} {
		writeTemplate(t, dir, name, "Hi {x}")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NormalizeDir(ctx, dir, NormalizeOptions{MaxDiagnostics: 10}, 1)
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
}
