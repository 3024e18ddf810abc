package lexer

import (
	"ember/internal/diag"
)

type Options struct {
	// Reporter receives the diagnostic that stopped lexing; may be nil.
	Reporter diag.Reporter
}
