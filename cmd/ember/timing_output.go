package main

import (
	"fmt"
	"io"
	"time"

	"ember/internal/buildpipeline"
)

// printStageTimings prints one line per recorded stage.
func printStageTimings(out io.Writer, timings *buildpipeline.Timings) {
	if out == nil || timings == nil {
		return
	}
	for _, stage := range buildpipeline.Stages {
		if timings.Has(stage) {
			fmt.Fprintf(out, "%-6s %8.1f ms\n", stage, toMillis(timings.Duration(stage)))
		}
	}
	fmt.Fprintf(out, "%-6s %8.1f ms\n", "total", toMillis(timings.Sum()))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
