package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"interp/internal/diag"
	"interp/internal/render"
	"interp/internal/source"
)

// NormalizeDirResult содержит результат нормализации одного файла
type NormalizeDirResult struct {
	Path   string        // Относительный путь к файлу
	FileID source.FileID // ID файла в FileSet
	Output render.Output // Результат нормализации
	Bag    *diag.Bag     // Диагностики
	// FromCache: результат взят из кэша (дискового или внутрипроцессного).
	FromCache bool
}

// ListTemplateFiles возвращает отсортированный список всех *.tmpl файлов в директории
func ListTemplateFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".tmpl") {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// NormalizeDir нормализует все *.tmpl файлы в директории параллельно
func NormalizeDir(ctx context.Context, dir string, opts NormalizeOptions, jobs int) (*source.FileSet, []NormalizeDirResult, error) {
	// Собираем список файлов
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
			// Сохраняем ошибку загрузки; пустая виртуальная запись даёт
			// диагностике валидный спан с путём файла
			loadErrors[path] = loadErr
			fileIDs[path] = fileSet.AddVirtual(path, nil)
			continue
		}
		fileIDs[path] = fileID
	}

	// Каталоги повторяют одинаковые шаблоны: чистые результаты
	// переиспользуем внутри прогона.
	memo := NewMemoCache(len(files))

	// Настраиваем параллелизм
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]NormalizeDirResult, len(files))

	// Параллельная нормализация
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func(i int, path string) func() error {
			return func() error {
				// Проверка отмены
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				if opts.Observer != nil {
					opts.Observer(PhaseEvent{Name: path, Status: PhaseStart})
				}
				start := time.Now()

				// Создаём bag для диагностик
				bag := diag.NewBag(opts.MaxDiagnostics)

				// Проверяем ошибку загрузки
				if loadErr, hadError := loadErrors[path]; hadError {
					results[i] = NormalizeDirResult{
						Path:   path,
						FileID: fileIDs[path],
						Bag:    bag,
					}
					bag.Add(diag.Diagnostic{
						Severity: diag.SevError,
						Code:     diag.IOLoadFileError,
						Message:  "failed to load file: " + loadErr.Error(),
						Primary:  source.Span{File: fileIDs[path]},
					})
					if opts.Observer != nil {
						opts.Observer(PhaseEvent{Name: path, Status: PhaseEnd, Elapsed: time.Since(start), Err: loadErr})
					}
					return nil
				}

				fileID := fileIDs[path]
				file := fileSet.Get(fileID)

				// Индекс i уникален для горутины, мьютекс не нужен.
				out, fromCache := NormalizeCached(file, memo, opts.Cache, bag)
				results[i] = NormalizeDirResult{
					Path:      path,
					FileID:    fileID,
					Output:    out,
					Bag:       bag,
					FromCache: fromCache,
				}

				if opts.Observer != nil {
					opts.Observer(PhaseEvent{Name: path, Status: PhaseEnd, Elapsed: time.Since(start), FromCache: fromCache})
				}
				return nil
			}
		}(i, path))
	}

	// Ждём завершения всех горутин
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}

	return fileSet, results, nil
}
