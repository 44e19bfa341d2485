package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"interp/internal/pipeline"
	"interp/internal/registry"
	"interp/internal/render"
)

func TestReadUIMode(t *testing.T) {
	cases := []struct {
		input string
		want  uiMode
	}{
		{"", uiModeAuto},
		{"auto", uiModeAuto},
		{"ON", uiModeOn},
		{" off ", uiModeOff},
	}
	for _, tc := range cases {
		got, err := readUIMode(tc.input)
		if err != nil {
			t.Fatalf("readUIMode(%q) error: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("readUIMode(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestReadInlineTemplate(t *testing.T) {
	name, data, err := readInlineTemplate([]string{"Hi {x}"})
	if err != nil {
		t.Fatalf("readInlineTemplate error: %v", err)
	}
	if name != "<arg>" || string(data) != "Hi {x}" {
		t.Errorf("got name=%q data=%q", name, data)
	}

	if _, _, err := readInlineTemplate(nil); err == nil {
		t.Fatal("expected error without arguments")
	}
}

func TestPrintNormalizePretty(t *testing.T) {
	out := render.Output{
		Normalized:  "Hello, __0! Your ID is __1:04x",
		Identifiers: []string{"name"},
		Slots: []registry.Slot{
			{Index: 0, Name: "name"},
			{Index: 1},
		},
	}

	var buf bytes.Buffer
	printNormalizePretty(&buf, out, false)
	if got := buf.String(); got != "Hello, __0! Your ID is __1:04x\n" {
		t.Errorf("plain output = %q", got)
	}

	buf.Reset()
	printNormalizePretty(&buf, out, true)
	text := buf.String()
	for _, want := range []string{"identifiers: name", "__0  name", "__1  (implicit)"} {
		if !strings.Contains(text, want) {
			t.Errorf("explain output missing %q:\n%s", want, text)
		}
	}
}

func TestMakeNormalizeOutput(t *testing.T) {
	plain := makeNormalizeOutput(render.Output{Normalized: "plain"}, false, false)
	if plain.Identifiers == nil {
		t.Error("identifiers must be non-nil for stable JSON")
	}
	if plain.Slots != nil {
		t.Error("slots are included only with --explain")
	}

	withSlots := makeNormalizeOutput(render.Output{
		Normalized: "__0",
		Slots:      []registry.Slot{{Index: 0, Name: "user"}},
	}, true, true)
	if len(withSlots.Slots) != 1 || withSlots.Slots[0].Name != "user" {
		t.Errorf("slots = %+v", withSlots.Slots)
	}
	if !withSlots.FromCache {
		t.Error("FromCache flag lost")
	}
}

func TestPrintStageTimings(t *testing.T) {
	var tm pipeline.Timings
	tm.Set(pipeline.StageLoad, 1500*time.Microsecond)
	tm.Set(pipeline.StageNormalize, 2*time.Millisecond)

	var buf bytes.Buffer
	printStageTimings(&buf, tm)
	text := buf.String()
	if !strings.Contains(text, "loaded 1.5 ms") || !strings.Contains(text, "normalized 2.0 ms") {
		t.Errorf("timing output = %q", text)
	}
	if strings.Contains(text, "encoded") {
		t.Errorf("encode stage was never recorded: %q", text)
	}
}

func TestValueOrUnknown(t *testing.T) {
	if got := valueOrUnknown(""); got != "unknown" {
		t.Errorf("valueOrUnknown(\"\") = %q", got)
	}
	if got := valueOrUnknown("abc123"); got != "abc123" {
		t.Errorf("valueOrUnknown(abc123) = %q", got)
	}
}

func TestRenderVersionPretty(t *testing.T) {
	info := versionInfo{Version: "1.2.3", GitCommit: "deadbeef"}
	var buf bytes.Buffer
	renderVersionPretty(&buf, info, versionOptions{showHash: true})
	text := buf.String()
	if !strings.Contains(text, "interp 1.2.3") {
		t.Errorf("missing version line: %q", text)
	}
	if !strings.Contains(text, "commit: deadbeef") {
		t.Errorf("missing commit line: %q", text)
	}
}
