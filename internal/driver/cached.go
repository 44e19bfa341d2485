package driver

import (
	"interp/internal/diag"
	"interp/internal/render"
	"interp/internal/source"
)

// NormalizeCached нормализует файл, переиспользуя чистые результаты из
// внутрипроцессного и дискового кэшей. Возвращает true, если результат
// взят из кэша: кэшируются только шаблоны без понижений, поэтому
// пропуск разбора никогда не глотает диагностики.
//
// memo и cache могут быть nil, bag обязателен.
func NormalizeCached(file *source.File, memo *MemoCache, cache *DiskCache, bag *diag.Bag) (render.Output, bool) {
	if out, ok := memo.Get(file.Hash); ok {
		return out, true
	}

	if cache != nil {
		var payload DiskPayload
		hit, err := cache.Get(file.Hash, &payload)
		if err == nil && hit && payload.Clean() {
			out := render.Output{
				Normalized:  payload.Normalized,
				Identifiers: payload.Identifiers,
				Slots:       payload.Slots,
			}
			memo.Put(file.Hash, out)
			return out, true
		}
	}

	out := render.Normalize(file, render.Options{
		Reporter: &diag.BagReporter{Bag: bag},
	})
	memo.Put(file.Hash, out)
	if cache != nil {
		_ = cache.Put(file.Hash, &DiskPayload{
			Schema:      diskCacheSchemaVersion,
			Normalized:  out.Normalized,
			Identifiers: out.Identifiers,
			Slots:       out.Slots,
			Demotions:   out.Demotions,
		})
	}
	return out, false
}
