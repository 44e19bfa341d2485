package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a pipeline phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a phase boundary. In batch runs Name holds the
// path of the file being processed.
type PhaseEvent struct {
	Name      string
	Status    PhaseStatus
	Elapsed   time.Duration
	FromCache bool
	Err       error
}

// PhaseObserver receives phase events emitted during NormalizeDir.
// Вызывается из рабочих горутин, реализация обязана быть потокобезопасной.
type PhaseObserver func(PhaseEvent)
