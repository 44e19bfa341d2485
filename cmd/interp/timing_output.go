package main

import (
	"fmt"
	"io"
	"time"

	"interp/internal/pipeline"
)

// printStageTimings пишет длительности пройденных стадий, по строке на стадию.
func printStageTimings(out io.Writer, timings pipeline.Timings) {
	if out == nil {
		return
	}
	if timings.Has(pipeline.StageLoad) {
		fmt.Fprintf(out, "loaded %.1f ms\n", toMillis(timings.Duration(pipeline.StageLoad)))
	}
	if timings.Has(pipeline.StageNormalize) {
		fmt.Fprintf(out, "normalized %.1f ms\n", toMillis(timings.Duration(pipeline.StageNormalize)))
	}
	if timings.Has(pipeline.StageEncode) {
		fmt.Fprintf(out, "encoded %.1f ms\n", toMillis(timings.Duration(pipeline.StageEncode)))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
