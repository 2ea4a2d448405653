// stats.go
package main

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/NOT-REAL-GAMES/vkframegen/framegen"
	"github.com/loov/hrtime"
	"github.com/olekukonko/tablewriter"
)

// frameTimer records CPU frame times on the render thread.
type frameTimer struct {
	start   time.Duration
	samples []time.Duration
}

func (t *frameTimer) Begin() {
	t.start = hrtime.Now()
}

func (t *frameTimer) End() {
	t.samples = append(t.samples, hrtime.Since(t.start))
}

type frameTimes struct {
	Frames   int
	Total    time.Duration
	Min      time.Duration
	Max      time.Duration
	Mean     time.Duration
	P99      time.Duration
	Recreate int
}

func (t *frameTimer) Summary() frameTimes {
	var out frameTimes
	if len(t.samples) == 0 {
		return out
	}

	sorted := append([]time.Duration(nil), t.samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	for _, d := range sorted {
		out.Total += d
	}
	out.Frames = len(sorted)
	out.Min = sorted[0]
	out.Max = sorted[len(sorted)-1]
	out.Mean = out.Total / time.Duration(len(sorted))
	// nearest rank
	out.P99 = sorted[(len(sorted)*99+99)/100-1]
	return out
}

func writeFrameStats(w io.Writer, times frameTimes, stats *framegen.FrameStats) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Engine frames", fmt.Sprintf("%d", times.Frames)})
	table.Append([]string{"Chain recreations", fmt.Sprintf("%d", times.Recreate)})
	table.Append([]string{"Min frame time", fmt.Sprintf("%s", times.Min)})
	table.Append([]string{"Mean frame time", fmt.Sprintf("%s", times.Mean)})
	table.Append([]string{"P99 frame time", fmt.Sprintf("%s", times.P99)})
	table.Append([]string{"Max frame time", fmt.Sprintf("%s", times.Max)})
	if stats != nil {
		table.Append([]string{"Frame generation", fmt.Sprintf("%t", stats.IsFrameGenerationEnabled)})
		table.Append([]string{"Engine presented frames", fmt.Sprintf("%d", stats.EnginePresentedFrames)})
		table.Append([]string{"Degraded frames", fmt.Sprintf("%d", stats.DegradedFrames)})
		table.Append([]string{"History resets", fmt.Sprintf("%d", stats.Resets)})
		table.SetFooter([]string{"Displayed frames", fmt.Sprintf("%d", stats.TotalPresentedFrameCount)})
	} else {
		table.SetFooter([]string{"TOTAL", fmt.Sprintf("%s", times.Total)})
	}

	table.Render()
}

func displayFrameStats(times frameTimes, stats *framegen.FrameStats) {
	var buf bytes.Buffer
	writeFrameStats(&buf, times, stats)
	logger.Noticef("frame statistics\n%s", buf.String())
}
