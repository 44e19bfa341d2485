package driver

import (
	"fmt"

	"interp/internal/diag"
	"interp/internal/observ"
	"interp/internal/render"
	"interp/internal/scan"
	"interp/internal/source"
	"interp/internal/token"
)

type DiagnoseResult struct {
	FileSet *source.FileSet
	File    *source.File
	// Output заполнен только для стадий render/all.
	Output *render.Output
	Bag    *diag.Bag
}

// DiagnoseStage определяет уровень диагностики
type DiagnoseStage string

const (
	// DiagnoseStageScan прогоняет только сканер: ловит незакрытые плейсхолдеры.
	DiagnoseStageScan DiagnoseStage = "scan"
	// DiagnoseStageRender дополнительно классифицирует тела и ловит демоции.
	DiagnoseStageRender DiagnoseStage = "render"
	DiagnoseStageAll    DiagnoseStage = "all"
)

// DiagnoseOptions содержит опции для диагностики
type DiagnoseOptions struct {
	Stage            DiagnoseStage
	MaxDiagnostics   int
	NFC              bool
	IgnoreWarnings   bool
	WarningsAsErrors bool
	EnableTimings    bool
}

// Diagnose запускает диагностику файла до указанной стадии
func Diagnose(path string, stage DiagnoseStage, maxDiagnostics int) (*DiagnoseResult, error) {
	opts := DiagnoseOptions{
		Stage:          stage,
		MaxDiagnostics: maxDiagnostics,
	}
	return DiagnoseWithOptions(path, opts)
}

// DiagnoseWithOptions запускает диагностику файла с указанными опциями
func DiagnoseWithOptions(path string, opts DiagnoseOptions) (*DiagnoseResult, error) {
	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}
	begin := func(name string) int {
		if timer == nil {
			return -1
		}
		return timer.Begin(name)
	}
	end := func(idx int, note string) {
		if timer == nil || idx < 0 {
			return
		}
		timer.End(idx, note)
	}

	loadIdx := begin("load_file")
	fs := source.NewFileSet()
	var (
		fileID source.FileID
		err    error
	)
	if opts.NFC {
		fileID, err = fs.LoadNFC(path)
	} else {
		fileID, err = fs.Load(path)
	}
	end(loadIdx, "")
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(opts.MaxDiagnostics)

	var output *render.Output
	switch opts.Stage {
	case DiagnoseStageScan:
		scanIdx := begin("scan")
		diagnoseScan(file, bag)
		scanNote := ""
		if timer != nil {
			scanNote = fmt.Sprintf("diags=%d", bag.Len())
		}
		end(scanIdx, scanNote)

	default:
		// render/all: сканер работает внутри рендера, диагностики
		// обеих стадий падают в общий bag.
		renderIdx := begin("normalize")
		out := render.Normalize(file, render.Options{
			Reporter: &diag.BagReporter{Bag: bag},
		})
		renderNote := ""
		if timer != nil {
			renderNote = fmt.Sprintf("diags=%d demoted=%d", bag.Len(), out.Demotions)
		}
		end(renderIdx, renderNote)
		output = &out
	}

	applyDiagnoseFilters(bag, opts)

	if timer != nil {
		report := timer.Report()
		appendTimingDiagnostic(bag, timingPayload{
			Kind:    "file",
			Path:    file.Path,
			TotalMS: report.TotalMS,
			Phases:  report.Phases,
		})
	}

	return &DiagnoseResult{
		FileSet: fs,
		File:    file,
		Output:  output,
		Bag:     bag,
	}, nil
}

// applyDiagnoseFilters применяет фильтрацию и трансформацию диагностик.
func applyDiagnoseFilters(bag *diag.Bag, opts DiagnoseOptions) {
	if opts.IgnoreWarnings {
		bag.Filter(func(d *diag.Diagnostic) bool {
			return d.Severity != diag.SevWarning && d.Severity != diag.SevInfo
		})
	}

	if opts.WarningsAsErrors {
		bag.Transform(func(d *diag.Diagnostic) *diag.Diagnostic {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
			return d
		})
		// Пересортировываем после изменения severity
		bag.Sort()
	}
}

// diagnoseScan прогоняет весь шаблон через сканер ради его диагностик.
func diagnoseScan(file *source.File, bag *diag.Bag) {
	s := scan.New(file, scan.Options{
		Reporter: &diag.BagReporter{Bag: bag},
	})
	for {
		tok := s.Next()
		if tok.Kind == token.EOF {
			break
		}
	}
}
