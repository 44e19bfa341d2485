// Package render rewrites scanned templates into canonical form: placeholders
// become positional __<slot> markers, escaped braces collapse, named
// identifiers are collected in sorted order.
//
// Назначение: единственный проход по токенам сканера для normalize-команд и драйвера.
// Не делает: подстановки значений аргументов, IO, кеширования.
// Зависимости: internal/scan, internal/token, internal/registry, internal/diag.
package render
