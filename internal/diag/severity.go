package diag

// Severity: насколько серьёзна диагностика.
// Info несут тайминги (ObsTimings), Warning несёт деградировавший кэш,
// Error останавливает стадию.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// IsError reports whether the diagnostic fails the compile.
func (s Severity) IsError() bool { return s >= SevError }

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
