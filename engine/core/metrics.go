package core

import (
	"sync"
	"time"
)

const AVG_COUNT uint8 = 30

/**
 * @brief Counters collected while building and drawing crowns.
 */
type MetricsState struct {
	Builds        uint64
	Vertices      uint64
	Indices       uint64
	DrawCalls     uint64
	Frames        uint64
	BuildAVGCount uint8
	BuildTimes    [AVG_COUNT]time.Duration
	BuildAVG      time.Duration
	LastBuildTime time.Duration
}

var metricsMutex sync.Mutex
var metricsState = &MetricsState{}

// MetricsReset clears every counter.
func MetricsReset() {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()
	*metricsState = MetricsState{}
}

// MetricsBuild records one finished build with its vertex and index totals.
func MetricsBuild(elapsed time.Duration, vertices, indices uint64) {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()

	metricsState.Builds++
	metricsState.Vertices += vertices
	metricsState.Indices += indices
	metricsState.LastBuildTime = elapsed

	// Rolling average over the last AVG_COUNT builds.
	metricsState.BuildTimes[metricsState.BuildAVGCount] = elapsed
	metricsState.BuildAVGCount++
	metricsState.BuildAVGCount %= AVG_COUNT

	samples := metricsState.Builds
	if samples > uint64(AVG_COUNT) {
		samples = uint64(AVG_COUNT)
	}
	total := time.Duration(0)
	for i := uint64(0); i < samples; i++ {
		total += metricsState.BuildTimes[i]
	}
	metricsState.BuildAVG = total / time.Duration(samples)
}

// MetricsFrame records one rendered frame and the draw calls it issued.
func MetricsFrame(drawCalls uint64) {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()
	metricsState.Frames++
	metricsState.DrawCalls += drawCalls
}

// MetricsSnapshot returns a copy of the counters.
func MetricsSnapshot() (builds, vertices, indices, frames, drawCalls uint64, buildAVG time.Duration) {
	metricsMutex.Lock()
	defer metricsMutex.Unlock()
	return metricsState.Builds, metricsState.Vertices, metricsState.Indices,
		metricsState.Frames, metricsState.DrawCalls, metricsState.BuildAVG
}
