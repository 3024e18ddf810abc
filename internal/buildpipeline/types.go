package buildpipeline

import (
	"sync"
	"time"
)

// Stage describes a pipeline phase of one file.
type Stage string

const (
	StageCache Stage = "cache"
	StageLex   Stage = "lex"
	StageParse Stage = "parse"
	StageCheck Stage = "check"
	StageGen   Stage = "gen"
	// StageWrite persists the assembly to the output directory.
	StageWrite Stage = "write"
)

// Stages lists the phases in pipeline order.
var Stages = []Stage{StageCache, StageLex, StageParse, StageCheck, StageGen, StageWrite}

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusCached  Status = "cached"
	StatusError   Status = "error"
)

// Terminal reports whether no further events follow for the file.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCached || s == StatusError
}

// Event reports progress for a file, or for the whole build when File is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Build calls OnEvent from several
// goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds stage durations. The zero value is ready to use and safe
// for concurrent Set/Add.
type Timings struct {
	mu     sync.Mutex
	stages map[Stage]time.Duration
}

// Set stores a duration for stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
	t.stages[stage] = dur
}

// Add accumulates every stage of other into t.
func (t *Timings) Add(other *Timings) {
	if t == nil || other == nil || t == other {
		return
	}
	other.mu.Lock()
	snapshot := make(map[Stage]time.Duration, len(other.stages))
	for k, v := range other.stages {
		snapshot[k] = v
	}
	other.mu.Unlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
	for k, v := range snapshot {
		t.stages[k] += v
	}
}

// Has reports whether a duration for stage is recorded.
func (t *Timings) Has(stage Stage) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t *Timings) Duration(stage Stage) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stages[stage]
}

// Sum returns the total over stages, or over every stage when none is given.
func (t *Timings) Sum(stages ...Stage) time.Duration {
	if len(stages) == 0 {
		stages = Stages
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}
