package pipeline

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"interp/internal/catalog"
	"interp/internal/driver"
	"interp/internal/source"
)

// NormalizeRequest describes a batch normalize run over a directory.
type NormalizeRequest struct {
	Dir      string
	Options  driver.NormalizeOptions
	Jobs     int
	Progress ProgressSink
}

// NormalizeOutcome carries the results of a batch normalize run.
type NormalizeOutcome struct {
	FileSet *source.FileSet
	Results []driver.NormalizeDirResult
	Timings Timings
}

// RunNormalize нормализует все *.tmpl файлы под req.Dir, отдавая
// пофайловый прогресс в req.Progress.
func RunNormalize(ctx context.Context, req NormalizeRequest) (NormalizeOutcome, error) {
	var outcome NormalizeOutcome

	loadStart := time.Now()
	files, err := driver.ListTemplateFiles(req.Dir)
	if err != nil {
		EmitStage(req.Progress, nil, StageLoad, StatusError, err, 0)
		return outcome, err
	}
	outcome.Timings.Set(StageLoad, time.Since(loadStart))

	display, byPath := DisplayNames(files, req.Dir)
	emitQueued(req.Progress, display)

	opts := req.Options
	if req.Progress != nil {
		opts.Observer = progressObserver(req.Progress, byPath)
	}

	start := time.Now()
	fs, results, err := driver.NormalizeDir(ctx, req.Dir, opts, req.Jobs)
	if err != nil {
		EmitStage(req.Progress, display, StageNormalize, StatusError, err, time.Since(start))
		return outcome, err
	}
	outcome.Timings.Set(StageNormalize, time.Since(start))
	outcome.FileSet = fs
	outcome.Results = results
	return outcome, nil
}

// CatalogRequest describes a catalog build run.
type CatalogRequest struct {
	Path string
	// Catalog, если задан, используется вместо загрузки из Path.
	Catalog  *catalog.Catalog
	Options  catalog.BuildOptions
	Progress ProgressSink
}

// CatalogOutcome carries the results of a catalog build run.
type CatalogOutcome struct {
	Catalog *catalog.Catalog
	Build   *catalog.BuildResult
	Timings Timings
}

// RunCatalog загружает и собирает каталог сообщений, отдавая прогресс
// по каждому сообщению в req.Progress (File = id сообщения).
func RunCatalog(ctx context.Context, req CatalogRequest) (CatalogOutcome, error) {
	var outcome CatalogOutcome

	c := req.Catalog
	if c == nil {
		loadStart := time.Now()
		loaded, err := catalog.Load(req.Path)
		if err != nil {
			EmitStage(req.Progress, nil, StageLoad, StatusError, err, 0)
			return outcome, err
		}
		c = loaded
		outcome.Timings.Set(StageLoad, time.Since(loadStart))
	}
	outcome.Catalog = c

	ids := c.IDs()
	emitQueued(req.Progress, ids)

	opts := req.Options
	if req.Progress != nil {
		// id сообщений уже являются отображаемыми именами
		opts.Observer = progressObserver(req.Progress, nil)
	}

	start := time.Now()
	build, err := catalog.Build(ctx, c, opts)
	if err != nil {
		EmitStage(req.Progress, ids, StageNormalize, StatusError, err, time.Since(start))
		return outcome, err
	}
	outcome.Timings.Set(StageNormalize, time.Since(start))
	outcome.Build = build
	return outcome, nil
}

// DisplayNames возвращает отображаемые имена файлов (относительно base,
// с прямыми слэшами) и соответствие путь → имя.
func DisplayNames(files []string, base string) ([]string, map[string]string) {
	names := make([]string, 0, len(files))
	byPath := make(map[string]string, len(files))
	for _, file := range files {
		name := file
		if base != "" {
			if rel, err := filepath.Rel(base, file); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
				name = rel
			}
		}
		name = filepath.ToSlash(name)
		byPath[file] = name
		names = append(names, name)
	}
	sort.Strings(names)
	return names, byPath
}

// progressObserver переводит пофайловые события драйвера в события
// прогресса. Вызывается из рабочих горутин; ProgressSink обязан быть
// потокобезопасным (ChannelSink безопасен).
func progressObserver(sink ProgressSink, names map[string]string) driver.PhaseObserver {
	return func(ev driver.PhaseEvent) {
		name, ok := names[ev.Name]
		if !ok {
			name = ev.Name
		}
		switch ev.Status {
		case driver.PhaseStart:
			sink.OnEvent(Event{File: name, Stage: StageNormalize, Status: StatusWorking})
		case driver.PhaseEnd:
			if ev.Err != nil {
				sink.OnEvent(Event{File: name, Stage: StageNormalize, Status: StatusError, Err: ev.Err, Elapsed: ev.Elapsed})
				return
			}
			sink.OnEvent(Event{File: name, Stage: StageNormalize, Status: StatusDone, Elapsed: ev.Elapsed, Cached: ev.FromCache})
		}
	}
}

func emitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageNormalize, Status: StatusQueued})
	}
}

// EmitStage reports an overall stage transition (plus per-file events
// when files are given). Nil sink is a no-op.
func EmitStage(sink ProgressSink, files []string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	}
}
