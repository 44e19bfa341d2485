package driver

import (
	"sync"

	"interp/internal/render"
)

// MemoCache — кэш результатов нормализации в памяти процесса, по хэшу
// содержимого. Каталоги часто повторяют одинаковые шаблоны, повторный
// разбор в рамках одного прогона не нужен.
type MemoCache struct {
	mu     sync.RWMutex
	byHash map[[32]byte]render.Output
}

// NewMemoCache creates a MemoCache with the given capacity hint.
func NewMemoCache(capHint int) *MemoCache {
	return &MemoCache{byHash: make(map[[32]byte]render.Output, capHint)}
}

// Get retrieves a normalization result by content hash.
func (c *MemoCache) Get(hash [32]byte) (render.Output, bool) {
	if c == nil {
		return render.Output{}, false
	}
	c.mu.RLock()
	out, ok := c.byHash[hash]
	c.mu.RUnlock()
	return out, ok
}

// Put сохраняет только чистые результаты: шаблон с предупреждениями
// обязан воспроизводить их при каждом разборе.
func (c *MemoCache) Put(hash [32]byte, out render.Output) {
	if c == nil || out.Demotions != 0 {
		return
	}
	c.mu.Lock()
	c.byHash[hash] = out
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *MemoCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byHash)
}
