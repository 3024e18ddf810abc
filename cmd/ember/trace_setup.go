package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ember/internal/trace"
)

func addTraceFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("trace", "", "write trace events to a file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson|chrome)")
	flags.Int("trace-ring-size", trace.DefaultRingSize, "ring buffer capacity in events")
	flags.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 disables)")
}

// traceSession holds the tracer of one command invocation.
type traceSession struct {
	tracer    trace.Tracer
	format    trace.Format
	span      *trace.Span
	heartbeat *trace.Heartbeat
}

// setupTracing inspects trace-related flags, initializes the tracer and
// opens the driver span of the command.
func setupTracing(cmd *cobra.Command) (*traceSession, error) {
	flags := cmd.Root().PersistentFlags()

	traceOutput, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatInterval, err := flags.GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && traceOutput != "" && !flags.Changed("trace-level") {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return nil, nil
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace format: %w", err)
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: traceOutput,
		RingSize:   ringSize,
		Heartbeat:  heartbeatInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	s := &traceSession{tracer: tracer, format: format}
	s.span = trace.Begin(tracer, trace.ScopeDriver, "ember "+cmd.Name(), 0)
	ctx := trace.WithParent(trace.WithTracer(cmd.Context(), tracer), s.span.ID())
	cmd.SetContext(ctx)
	s.heartbeat = trace.StartHeartbeat(tracer, heartbeatInterval)
	return s, nil
}

// finish closes the driver span, dumps the ring buffer to errOut when the
// command failed, then flushes and closes the tracer. A nil session is a no-op.
func (s *traceSession) finish(failed bool, errOut io.Writer) {
	if s == nil {
		return
	}
	detail := "ok"
	if failed {
		detail = "failed"
	}
	s.span.End(detail)
	s.heartbeat.Stop()

	if ring, ok := trace.FindRing(s.tracer); ok && failed {
		format := s.format
		if format == trace.FormatAuto {
			format = trace.FormatText
		}
		fmt.Fprintf(errOut, "trace: last %d events\n", len(ring.Snapshot()))
		if err := ring.Dump(errOut, format); err != nil {
			fmt.Fprintf(errOut, "trace: dump error: %v\n", err)
		}
	}
	if err := s.tracer.Flush(); err != nil {
		fmt.Fprintf(errOut, "trace: flush error: %v\n", err)
	}
	if err := s.tracer.Close(); err != nil {
		fmt.Fprintf(errOut, "trace: close error: %v\n", err)
	}
}
