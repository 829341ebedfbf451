package benchmark

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/rambotech/dropzone-go/internal/core/domain"
	"github.com/rambotech/dropzone-go/internal/storage/memory"
)

// PreloadCounts defines the queue depths for benchmarking.
var PreloadCounts = []int{1000, 10000, 100000}

// SmallPreloadCounts for quick benchmarks.
var SmallPreloadCounts = []int{1000, 10000}

// benchLimits are generous enough that quota checks never deny during
// a benchmark run.
func benchLimits() domain.Limits {
	return domain.Limits{
		MaxPayloadCount:   10_000_000,
		MaxPayloadSize:    1 << 40,
		MaxReferenceCount: 10_000_000,
		MaxReferenceSize:  1 << 40,
	}
}

// newBenchRegistry creates a registry sized for benchmarks.
func newBenchRegistry() *memory.Registry {
	return memory.NewRegistry(
		memory.WithMaxZones(100),
		memory.WithDefaultLimits(benchLimits()),
	)
}

// benchPayload builds a payload of roughly the given size.
func benchPayload(size int) string {
	return strings.Repeat("x", size)
}

// prefillZone queues count payloads for the global recipient.
func prefillZone(b *testing.B, reg *memory.Registry, zone string, count int) {
	b.Helper()
	ctx := context.Background()
	payload := benchPayload(128)
	for i := 0; i < count; i++ {
		if err := reg.Dropoff(ctx, zone, "", fmt.Sprintf("t-%d", i), time.Time{}, payload); err != nil {
			b.Fatalf("prefill dropoff: %v", err)
		}
	}
}

// reportMemory reports heap usage as benchmark metrics.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
	b.ReportMetric(float64(m.NumGC), prefix+"_GC")
}
