// Package fuzztests houses Go fuzz harnesses that exercise the template
// pipeline (source -> scanner -> normalizer). Its goal is to smoke test
// totality and guard against panics or broken stream invariants on
// arbitrary inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через сканер/нормализатор.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/scan, internal/render, internal/diag,
// internal/testkit.

package fuzztests
