package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	PhaseStart PhaseStatus = iota
	PhaseEnd
	PhaseFailed
)

func (s PhaseStatus) String() string {
	switch s {
	case PhaseStart:
		return "start"
	case PhaseEnd:
		return "end"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// PhaseEvent describes a stage boundary of one file.
type PhaseEvent struct {
	Name    string // cache, lex, parse, check, gen
	Path    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events. CompileDir calls it from several
// goroutines at once.
type PhaseObserver func(PhaseEvent)

func (o PhaseObserver) emit(ev PhaseEvent) {
	if o != nil {
		o(ev)
	}
}
