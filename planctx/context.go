// Package planctx carries ambient logging, timing and an optional
// debug-dump side channel through the planning pipeline. It mirrors
// the teacher's BuildContext: plain accumulation of named timers and
// log lines, no behavior hidden behind a third-party logging
// framework, because the teacher itself hand-rolls this concern.
package planctx

import (
	"fmt"
	"time"
)

// LogCategory classifies a single log line.
type LogCategory int

const (
	Progress LogCategory = 1 + iota
	Warning
	Error
)

// TimerLabel names one of the named timers a phase can start/stop.
type TimerLabel int

const (
	TimerFeatureExtract TimerLabel = iota
	TimerClassify
	TimerPerimeterEnergy
	TimerPerimeterEvolve
	TimerRoadRoute
	TimerPartition
	TimerRasterMorphology
	TimerRasterDistanceTransform
	TimerRasterConnectedComponents
	numTimers
)

var timerNames = [numTimers]string{
	TimerFeatureExtract:            "feature-extract",
	TimerClassify:                  "classify",
	TimerPerimeterEnergy:           "perimeter-energy",
	TimerPerimeterEvolve:           "perimeter-evolve",
	TimerRoadRoute:                 "road-route",
	TimerPartition:                 "partition",
	TimerRasterMorphology:          "raster-morphology",
	TimerRasterDistanceTransform:   "raster-distance-transform",
	TimerRasterConnectedComponents: "raster-connected-components",
}

// DebugSink receives advisory raster dumps. It carries no ordering or
// durability contract: the core calls it best-effort and never
// depends on its result. A nil DebugSink (the default) makes
// Context.DumpRaster a no-op.
type DebugSink interface {
	DumpRaster(name string, w, h int, pix []uint8)
}

// Context is threaded through every phase of the pipeline. It owns no
// algorithmic state of its own: it is pure bookkeeping, the same role
// BuildContext plays in the teacher.
type Context struct {
	logEnabled   bool
	timerEnabled bool

	messages []string

	startTime [numTimers]time.Time
	accTime   [numTimers]time.Duration

	sink DebugSink
}

// New creates a Context. When enabled is false, logging and timers are
// compiled in but inert (matching BuildContext's enable/disable split).
func New(enabled bool) *Context {
	return &Context{logEnabled: enabled, timerEnabled: enabled}
}

// SetDebugSink installs the advisory dump side channel described in
// spec.md §6. Passing nil restores the no-op default.
func (c *Context) SetDebugSink(s DebugSink) {
	c.sink = s
}

// DumpRaster forwards to the configured DebugSink, if any.
func (c *Context) DumpRaster(name string, w, h int, pix []uint8) {
	if c.sink == nil {
		return
	}
	c.sink.DumpRaster(name, w, h, pix)
}

func (c *Context) log(cat LogCategory, prefix, format string, v ...interface{}) {
	if !c.logEnabled {
		return
	}
	c.messages = append(c.messages, prefix+" "+fmt.Sprintf(format, v...))
}

// Progressf logs a progress message.
func (c *Context) Progressf(format string, v ...interface{}) {
	c.log(Progress, "PROG", format, v...)
}

// Warningf logs a warning message. Used for bounded-work exhaustion
// (e.g. the partitioner's cross-street budget) — never for silent
// truncation.
func (c *Context) Warningf(format string, v ...interface{}) {
	c.log(Warning, "WARN", format, v...)
}

// Errorf logs an error message.
func (c *Context) Errorf(format string, v ...interface{}) {
	c.log(Error, "ERR", format, v...)
}

// Messages returns all log lines accumulated so far.
func (c *Context) Messages() []string {
	return c.messages
}

// StartTimer starts the named timer.
func (c *Context) StartTimer(label TimerLabel) {
	if c.timerEnabled {
		c.startTime[label] = time.Now()
	}
}

// StopTimer stops the named timer and accumulates elapsed time.
func (c *Context) StopTimer(label TimerLabel) {
	if c.timerEnabled {
		c.accTime[label] += time.Since(c.startTime[label])
	}
}

// AccumulatedTime returns the total time spent in label so far, or 0
// if timers are disabled.
func (c *Context) AccumulatedTime(label TimerLabel) time.Duration {
	if !c.timerEnabled {
		return 0
	}
	return c.accTime[label]
}

// DumpLog prints a header followed by every accumulated log line.
func (c *Context) DumpLog(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
	for _, m := range c.messages {
		fmt.Println(m)
	}
}

// LogBuildTimes prints the accumulated timers as a percentage-of-total
// breakdown, in the teacher's LogBuildTimes style.
func (c *Context) LogBuildTimes(total time.Duration) {
	if total <= 0 {
		return
	}
	pc := 100.0 / float64(total)
	c.Progressf("Build Times")
	for label, name := range timerNames {
		t := c.AccumulatedTime(TimerLabel(label))
		if t == 0 {
			continue
		}
		c.Progressf("- %s:\t%.2fms\t(%.1f%%)", name,
			float64(t)/float64(time.Millisecond), float64(t)*pc)
	}
}
