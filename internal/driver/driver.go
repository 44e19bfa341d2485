package driver

import (
	"fmt"

	"interp/internal/diag"
	"interp/internal/observ"
	"interp/internal/render"
	"interp/internal/source"
)

// NormalizeOptions содержит опции нормализации одного шаблона.
type NormalizeOptions struct {
	MaxDiagnostics int
	// NFC включает Unicode-нормализацию содержимого при загрузке.
	NFC bool
	// Cache — дисковый кэш результатов; nil отключает кэширование.
	Cache *DiskCache
	// EnableTimings добавляет в bag диагностику ObsTimings с фазами.
	EnableTimings bool
	// Observer получает пофайловые события во время NormalizeDir.
	Observer PhaseObserver
}

// NormalizeResult содержит результат нормализации одного шаблона.
type NormalizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Output  render.Output
	Bag     *diag.Bag
	// FromCache: результат взят из кэша, сканер и рендер не запускались.
	FromCache bool
}

// NormalizeFile загружает шаблон с диска и нормализует его.
func NormalizeFile(path string, opts NormalizeOptions) (*NormalizeResult, error) {
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
	result := &NormalizeResult{
		FileSet: fs,
		File:    file,
		Bag:     bag,
	}

	// Кэш отдаёт только чистые результаты: диагностики в нём не хранятся,
	// шаблон с предупреждениями разбирается заново.
	if opts.Cache != nil {
		cacheIdx := begin("cache_lookup")
		var payload DiskPayload
		hit, cacheErr := opts.Cache.Get(file.Hash, &payload)
		note := "miss"
		if hit {
			note = "hit"
		}
		end(cacheIdx, note)
		if cacheErr == nil && hit && payload.Clean() {
			result.Output = render.Output{
				Normalized:  payload.Normalized,
				Identifiers: payload.Identifiers,
				Slots:       payload.Slots,
			}
			result.FromCache = true
			finishTimings(timer, bag, file.Path)
			return result, nil
		}
	}

	renderIdx := begin("normalize")
	out := render.Normalize(file, render.Options{
		Reporter: &diag.BagReporter{Bag: bag},
	})
	renderNote := ""
	if timer != nil {
		renderNote = fmt.Sprintf("diags=%d", bag.Len())
	}
	end(renderIdx, renderNote)
	result.Output = out

	if opts.Cache != nil {
		storeIdx := begin("cache_store")
		// Ошибка записи в кэш не мешает выдаче результата.
		_ = opts.Cache.Put(file.Hash, &DiskPayload{
			Schema:      diskCacheSchemaVersion,
			Normalized:  out.Normalized,
			Identifiers: out.Identifiers,
			Slots:       out.Slots,
			Demotions:   out.Demotions,
		})
		end(storeIdx, "")
	}

	finishTimings(timer, bag, file.Path)
	return result, nil
}

// NormalizeString нормализует шаблон из памяти (аргумент CLI, stdin, тест).
// Никогда не возвращает ошибку: разбор тотален.
func NormalizeString(name string, template []byte, maxDiagnostics int) *NormalizeResult {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, template)
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	out := render.Normalize(file, render.Options{
		Reporter: &diag.BagReporter{Bag: bag},
	})

	return &NormalizeResult{
		FileSet: fs,
		File:    file,
		Output:  out,
		Bag:     bag,
	}
}

func finishTimings(timer *observ.Timer, bag *diag.Bag, path string) {
	if timer == nil {
		return
	}
	report := timer.Report()
	appendTimingDiagnostic(bag, timingPayload{
		Kind:    "file",
		Path:    path,
		TotalMS: report.TotalMS,
		Phases:  report.Phases,
	})
}
