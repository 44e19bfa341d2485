package registry

import (
	"slices"
)

// Slot — одна зарезервированная позиция аргумента.
// Name пустое для анонимных дырок "{}".
type Slot struct {
	Index int
	Name  string
}

// Registry нумерует источники аргументов шаблона: именованные
// плейсхолдеры и анонимные дырки делят один счётчик слотов.
// Явные "{n}" сюда не попадают: их уже пронумеровал автор шаблона.
type Registry struct {
	slots  []Slot
	names  Set            // имена в порядке сортировки
	byName map[string]int // имя -> индекс слота
}

func New() *Registry {
	return &Registry{
		byName: make(map[string]int),
	}
}

// Register выдаёт слот для именованного плейсхолдера.
// Первое вхождение имени занимает следующий слот, повторы возвращают тот же.
func (r *Registry) Register(name string) int {
	if idx, ok := r.byName[name]; ok {
		return idx
	}

	// Собственная копия имени, чтобы не держать буфер исходного шаблона.
	cpy := string([]byte(name))
	idx := len(r.slots)
	r.slots = append(r.slots, Slot{Index: idx, Name: cpy})
	r.byName[cpy] = idx
	r.names.Insert(cpy)
	return idx
}

// Alloc выдаёт следующий слот для анонимной дырки "{}".
// Каждая дырка занимает собственный слот, повторного использования нет.
func (r *Registry) Alloc() int {
	idx := len(r.slots)
	r.slots = append(r.slots, Slot{Index: idx})
	return idx
}

// Has проверяет, получало ли имя слот.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Len возвращает количество занятых слотов.
func (r *Registry) Len() int {
	return len(r.slots)
}

// Names возвращает отсортированный список именованных идентификаторов.
// Дубликатов нет: имя занимает слот один раз.
func (r *Registry) Names() []string {
	return r.names.Items()
}

// Snapshot возвращает копию таблицы слотов в порядке выдачи.
func (r *Registry) Snapshot() []Slot {
	return slices.Clone(r.slots)
}
