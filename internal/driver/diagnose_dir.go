package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"interp/internal/diag"
	"interp/internal/render"
	"interp/internal/source"
)

// DiagnoseDirResult содержит диагностику одного файла
type DiagnoseDirResult struct {
	Path   string        // Относительный путь к файлу
	FileID source.FileID // ID файла в FileSet
	Bag    *diag.Bag     // Диагностики
}

// DiagnoseDir диагностирует все *.tmpl файлы в директории параллельно.
// Кэш не используется: диагностики не сериализуются, каждый файл
// разбирается заново.
func DiagnoseDir(ctx context.Context, dir string, opts DiagnoseOptions, jobs int) (*source.FileSet, []DiagnoseDirResult, error) {
	files, err := ListTemplateFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	if len(files) == 0 {
		return source.NewFileSetWithBase(dir), nil, nil
	}

	// Создаём FileSet и предзагружаем все файлы
	fileSet := source.NewFileSetWithBase(dir)
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))

	for _, path := range files {
		var fileID source.FileID
		var loadErr error
		if opts.NFC {
			fileID, loadErr = fileSet.LoadNFC(path)
		} else {
			fileID, loadErr = fileSet.Load(path)
		}
		if loadErr != nil {
			// Пустая виртуальная запись даёт диагностике валидный спан
			loadErrors[path] = loadErr
			fileIDs[path] = fileSet.AddVirtual(path, nil)
			continue
		}
		fileIDs[path] = fileID
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]DiagnoseDirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func(i int, path string) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				bag := diag.NewBag(opts.MaxDiagnostics)

				if loadErr, hadError := loadErrors[path]; hadError {
					bag.Add(diag.Diagnostic{
						Severity: diag.SevError,
						Code:     diag.IOLoadFileError,
						Message:  "failed to load file: " + loadErr.Error(),
						Primary:  source.Span{File: fileIDs[path]},
					})
					results[i] = DiagnoseDirResult{Path: path, FileID: fileIDs[path], Bag: bag}
					return nil
				}

				fileID := fileIDs[path]
				file := fileSet.Get(fileID)

				switch opts.Stage {
				case DiagnoseStageScan:
					diagnoseScan(file, bag)
				default:
					render.Normalize(file, render.Options{
						Reporter: &diag.BagReporter{Bag: bag},
					})
				}

				applyDiagnoseFilters(bag, opts)

				// Индекс i уникален для горутины, мьютекс не нужен.
				results[i] = DiagnoseDirResult{
					Path:   path,
					FileID: fileID,
					Bag:    bag,
				}
				return nil
			}
		}(i, path))
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}

	return fileSet, results, nil
}
