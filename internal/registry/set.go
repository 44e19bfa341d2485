package registry

import "slices"

// Set — упорядоченное множество имён идентификаторов: отсортированный
// срез со вставкой через бинарный поиск. Нулевое значение готово к работе.
type Set struct {
	names []string
}

// Insert добавляет имя, сохраняя сортировку. Повтор ничего не меняет.
// Возвращает true, если имя новое.
func (s *Set) Insert(name string) bool {
	idx, found := slices.BinarySearch(s.names, name)
	if found {
		return false
	}
	s.names = slices.Insert(s.names, idx, name)
	return true
}

// Has проверяет наличие имени.
func (s *Set) Has(name string) bool {
	_, found := slices.BinarySearch(s.names, name)
	return found
}

// Len возвращает количество имён.
func (s *Set) Len() int {
	return len(s.names)
}

// Items возвращает копию списка в порядке сортировки. Копия никогда
// не nil: пустое множество даёт пустой срез.
func (s *Set) Items() []string {
	items := make([]string, len(s.names))
	copy(items, s.names)
	return items
}
