package ui

import (
	"strings"
	"testing"

	"interp/internal/pipeline"
)

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		name string
		ev   pipeline.Event
		want string
	}{
		{"queued", pipeline.Event{Status: pipeline.StatusQueued}, "queued"},
		{"done", pipeline.Event{Status: pipeline.StatusDone}, "done"},
		{"cached", pipeline.Event{Status: pipeline.StatusDone, Cached: true}, "cached"},
		{"error", pipeline.Event{Status: pipeline.StatusError}, "error"},
		{"working normalize", pipeline.Event{Status: pipeline.StatusWorking, Stage: pipeline.StageNormalize}, "normalizing"},
		{"working load", pipeline.Event{Status: pipeline.StatusWorking, Stage: pipeline.StageLoad}, "loading"},
		{"working encode", pipeline.Event{Status: pipeline.StatusWorking, Stage: pipeline.StageEncode}, "encoding"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusLabel(tt.ev); got != tt.want {
				t.Errorf("statusLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProgressModel_ApplyEvents(t *testing.T) {
	events := make(chan pipeline.Event)
	model := NewProgressModel("normalize", []string{"a.tmpl", "b.tmpl"}, events).(*progressModel)

	model.applyEvent(pipeline.Event{File: "a.tmpl", Stage: pipeline.StageNormalize, Status: pipeline.StatusWorking})
	if model.items[0].status != "normalizing" {
		t.Errorf("a.tmpl status = %q", model.items[0].status)
	}

	model.applyEvent(pipeline.Event{File: "a.tmpl", Stage: pipeline.StageNormalize, Status: pipeline.StatusDone})
	model.applyEvent(pipeline.Event{File: "b.tmpl", Stage: pipeline.StageNormalize, Status: pipeline.StatusDone, Cached: true})
	if model.items[0].status != "done" || model.items[1].status != "cached" {
		t.Errorf("statuses = %q, %q", model.items[0].status, model.items[1].status)
	}

	// Событие про неизвестный файл игнорируется
	model.applyEvent(pipeline.Event{File: "ghost.tmpl", Status: pipeline.StatusDone})

	// Событие уровня стадии (File пуст) меняет заголовок
	model.applyEvent(pipeline.Event{Stage: pipeline.StageEncode, Status: pipeline.StatusWorking})
	if model.stageLabel != "encoding" {
		t.Errorf("stageLabel = %q", model.stageLabel)
	}

	view := model.View()
	for _, want := range []string{"a.tmpl", "b.tmpl", "done", "cached"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestProgressModel_DoneOnClosedChannel(t *testing.T) {
	events := make(chan pipeline.Event)
	close(events)
	model := NewProgressModel("normalize", []string{"a.tmpl"}, events).(*progressModel)

	msg := model.listenForEvent()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("expected doneMsg on closed channel, got %T", msg)
	}
	updated, _ := model.Update(msg)
	if !updated.(*progressModel).done {
		t.Error("model must mark itself done")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short.tmpl", 20); got != "short.tmpl" {
		t.Errorf("truncate = %q", got)
	}
	got := truncate("very/long/path/to/some/template.tmpl", 12)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncate = %q, want ... suffix", got)
	}
	if got := truncate("anything", 0); got != "anything" {
		t.Errorf("width 0 must be a no-op, got %q", got)
	}
}
