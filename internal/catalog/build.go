package catalog

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"interp/internal/diag"
	"interp/internal/driver"
	"interp/internal/source"
)

// Message — результат нормализации одного сообщения каталога.
type Message struct {
	ID          string
	Template    string
	Normalized  string
	Identifiers []string
	Demotions   int
	// FromCache: результат взят из кэша (дискового или внутрипроцессного).
	FromCache bool
}

// BuildOptions настраивают пакетную нормализацию каталога.
type BuildOptions struct {
	MaxDiagnostics int
	// Jobs — степень параллелизма; <=0 означает GOMAXPROCS.
	Jobs int
	// Cache — дисковый кэш результатов; nil отключает кэширование.
	Cache *driver.DiskCache
	// Observer получает события по каждому сообщению (Name = id сообщения).
	Observer driver.PhaseObserver
}

// BuildResult — нормализованный каталог плюс объединённые диагностики.
type BuildResult struct {
	Name string
	// Messages отсортированы по ID.
	Messages []Message
	Bag      *diag.Bag
	FileSet  *source.FileSet
}

// Build нормализует все сообщения каталога параллельно. Валидация
// выполняется первой в тот же bag; нормализация тотальна, поэтому
// строятся все сообщения, включая невалидные. Ошибку возвращает только
// отмена контекста.
func Build(ctx context.Context, c *Catalog, opts BuildOptions) (*BuildResult, error) {
	bag := diag.NewBag(opts.MaxDiagnostics)
	result := &BuildResult{
		Name:    c.Name,
		Bag:     bag,
		FileSet: source.NewFileSet(),
	}

	// Якорная запись идёт первой: диагностики валидации несут нулевой
	// спан и должны указывать на сам файл каталога.
	result.FileSet.AddVirtual(c.Path, nil)
	c.Validate(diag.BagReporter{Bag: bag})

	ids := c.IDs()
	if len(ids) == 0 {
		return result, nil
	}

	// Предзагрузка последовательная: FileSet не рассчитан на
	// конкурентную запись. Горутины дальше только читают.
	files := make([]*source.File, len(ids))
	for i, id := range ids {
		fileID := result.FileSet.AddVirtual(c.Path+"#"+id, []byte(c.Messages[id]))
		files[i] = result.FileSet.Get(fileID)
	}

	// Каталоги повторяют одинаковые шаблоны: чистые результаты
	// переиспользуем внутри прогона.
	memo := driver.NewMemoCache(len(ids))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	messages := make([]Message, len(ids))
	bags := make([]*diag.Bag, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(ids)))

	for i, id := range ids {
		g.Go(func(i int, id string) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				if opts.Observer != nil {
					opts.Observer(driver.PhaseEvent{Name: id, Status: driver.PhaseStart})
				}
				start := time.Now()

				// Индекс i уникален для горутины, мьютекс не нужен.
				mbag := diag.NewBag(opts.MaxDiagnostics)
				bags[i] = mbag
				out, fromCache := driver.NormalizeCached(files[i], memo, opts.Cache, mbag)
				messages[i] = Message{
					ID:          id,
					Template:    c.Messages[id],
					Normalized:  out.Normalized,
					Identifiers: out.Identifiers,
					Demotions:   out.Demotions,
					FromCache:   fromCache,
				}

				if opts.Observer != nil {
					opts.Observer(driver.PhaseEvent{Name: id, Status: driver.PhaseEnd, Elapsed: time.Since(start), FromCache: fromCache})
				}
				return nil
			}
		}(i, id))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Сливаем пофайловые диагностики в порядке сортировки id.
	for _, mbag := range bags {
		bag.Merge(mbag)
	}
	bag.Sort()

	result.Messages = messages
	return result, nil
}
