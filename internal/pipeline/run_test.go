package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"interp/internal/catalog"
	"interp/internal/driver"
)

type recordSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordSink) OnEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func (s *recordSink) byStatus(status Status) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, ev := range s.events {
		if ev.Status == status {
			out = append(out, ev)
		}
	}
	return out
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestRunNormalize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.tmpl", "Hi {x}")
	writeFile(t, dir, "b.tmpl", "Hi {x}")

	sink := &recordSink{}
	req := NormalizeRequest{
		Dir:      dir,
		Options:  driver.NormalizeOptions{MaxDiagnostics: 10},
		Jobs:     1,
		Progress: sink,
	}

	outcome, err := RunNormalize(context.Background(), req)
	if err != nil {
		t.Fatalf("RunNormalize error: %v", err)
	}
	if len(outcome.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(outcome.Results))
	}
	if !outcome.Timings.Has(StageLoad) || !outcome.Timings.Has(StageNormalize) {
		t.Error("expected load and normalize timings")
	}

	queued := sink.byStatus(StatusQueued)
	if len(queued) != 2 {
		t.Fatalf("expected 2 queued events, got %d", len(queued))
	}
	// Отображаемые имена — относительные, в отсортированном порядке
	if queued[0].File != "a.tmpl" || queued[1].File != "b.tmpl" {
		t.Errorf("queued files = %q, %q", queued[0].File, queued[1].File)
	}

	if got := sink.byStatus(StatusWorking); len(got) != 2 {
		t.Errorf("expected 2 working events, got %d", len(got))
	}
	done := sink.byStatus(StatusDone)
	if len(done) != 2 {
		t.Fatalf("expected 2 done events, got %d", len(done))
	}
	// jobs=1: второй файл с тем же содержимым приходит из memo-кэша
	cached := 0
	for _, ev := range done {
		if ev.Cached {
			cached++
		}
	}
	if cached != 1 {
		t.Errorf("expected exactly one cached completion, got %d", cached)
	}
}

func TestRunNormalize_MissingDir(t *testing.T) {
	sink := &recordSink{}
	req := NormalizeRequest{
		Dir:      filepath.Join(t.TempDir(), "absent"),
		Options:  driver.NormalizeOptions{MaxDiagnostics: 10},
		Progress: sink,
	}

	if _, err := RunNormalize(context.Background(), req); err == nil {
		t.Fatal("expected error for missing directory")
	}
	errs := sink.byStatus(StatusError)
	if len(errs) != 1 || errs[0].Stage != StageLoad {
		t.Errorf("expected one load error event, got %+v", errs)
	}
}

func TestRunCatalog(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "msgs.toml", `
[catalog]
name = "demo"

[messages]
greeting = "Hello, {name}!"
farewell = "Bye, {who}."
`)

	sink := &recordSink{}
	req := CatalogRequest{
		Path:     filepath.Join(dir, "msgs.toml"),
		Options:  catalog.BuildOptions{MaxDiagnostics: 10, Jobs: 1},
		Progress: sink,
	}

	outcome, err := RunCatalog(context.Background(), req)
	if err != nil {
		t.Fatalf("RunCatalog error: %v", err)
	}
	if outcome.Catalog == nil || outcome.Build == nil {
		t.Fatal("expected catalog and build result")
	}
	if len(outcome.Build.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(outcome.Build.Messages))
	}

	queued := sink.byStatus(StatusQueued)
	if len(queued) != 2 || queued[0].File != "farewell" || queued[1].File != "greeting" {
		t.Errorf("queued events = %+v", queued)
	}
	if done := sink.byStatus(StatusDone); len(done) != 2 {
		t.Errorf("expected 2 done events, got %d", len(done))
	}
}

func TestRunCatalog_LoadError(t *testing.T) {
	sink := &recordSink{}
	req := CatalogRequest{
		Path:     filepath.Join(t.TempDir(), "absent.toml"),
		Progress: sink,
	}

	if _, err := RunCatalog(context.Background(), req); err == nil {
		t.Fatal("expected error for missing catalog")
	}
	errs := sink.byStatus(StatusError)
	if len(errs) != 1 || errs[0].Stage != StageLoad {
		t.Errorf("expected one load error event, got %+v", errs)
	}
}

func TestRunCatalog_Preloaded(t *testing.T) {
	c := &catalog.Catalog{
		Name:     "demo",
		Path:     "mem.toml",
		Messages: map[string]string{"greeting": "Hello, {name}!"},
	}

	req := CatalogRequest{
		Catalog: c,
		Options: catalog.BuildOptions{MaxDiagnostics: 10, Jobs: 1},
	}

	outcome, err := RunCatalog(context.Background(), req)
	if err != nil {
		t.Fatalf("RunCatalog error: %v", err)
	}
	if outcome.Catalog != c {
		t.Error("expected the preloaded catalog to be used as-is")
	}
	// Загрузки не было, и тайминг стадии load не записан
	if outcome.Timings.Has(StageLoad) {
		t.Error("preloaded catalog must not record a load timing")
	}
	if len(outcome.Build.Messages) != 1 || outcome.Build.Messages[0].Normalized != "Hello, __0!" {
		t.Errorf("build messages = %+v", outcome.Build.Messages)
	}
}

func TestDisplayNames(t *testing.T) {
	base := t.TempDir()
	files := []string{
		filepath.Join(base, "b.tmpl"),
		filepath.Join(base, "sub", "a.tmpl"),
	}

	names, byPath := DisplayNames(files, base)
	if len(names) != 2 || names[0] != "b.tmpl" || names[1] != "sub/a.tmpl" {
		t.Errorf("names = %v", names)
	}
	if byPath[files[1]] != "sub/a.tmpl" {
		t.Errorf("byPath = %v", byPath)
	}
}

func TestTimings(t *testing.T) {
	var tm Timings
	if tm.Has(StageLoad) {
		t.Error("empty timings must not report stages")
	}
	tm.Set(StageLoad, 5*time.Millisecond)
	tm.Set(StageNormalize, 7*time.Millisecond)
	if !tm.Has(StageLoad) || tm.Duration(StageLoad) != 5*time.Millisecond {
		t.Errorf("load duration = %v", tm.Duration(StageLoad))
	}
	if got := tm.Sum(StageLoad, StageNormalize); got != 12*time.Millisecond {
		t.Errorf("Sum = %v, want 12ms", got)
	}
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	sink := ChannelSink{Ch: ch}
	sink.OnEvent(Event{File: "x.tmpl", Status: StatusDone})
	ev := <-ch
	if ev.File != "x.tmpl" || ev.Status != StatusDone {
		t.Errorf("forwarded event = %+v", ev)
	}

	// nil-канал — no-op, не паникует
	ChannelSink{}.OnEvent(Event{File: "y.tmpl"})
}
