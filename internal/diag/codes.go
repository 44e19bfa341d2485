package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Сканирование шаблонов
	ScanInfo                    Code = 1000
	ScanUnterminatedPlaceholder Code = 1001
	ScanMalformedPlaceholder    Code = 1002

	// Каталоги сообщений
	CatalogInfo           Code = 2000
	CatalogEmptyMessageID Code = 2001
	CatalogBadMessageID   Code = 2002
	CatalogEmptyTemplate  Code = 2003

	// Ошибки I/O
	IOLoadFileError Code = 4001

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	ScanInfo:                    "Scan information",
	ScanUnterminatedPlaceholder: "Unterminated placeholder",
	ScanMalformedPlaceholder:    "Malformed placeholder body",
	CatalogInfo:                 "Catalog information",
	CatalogEmptyMessageID:       "Empty message id",
	CatalogBadMessageID:         "Invalid message id",
	CatalogEmptyTemplate:        "Empty message template",
	IOLoadFileError:             "I/O load file error",
	ObsInfo:                     "Observability information",
	ObsTimings:                  "Batch timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SCN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("CAT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
