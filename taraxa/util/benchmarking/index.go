package benchmarking

import (
	"runtime"
	"runtime/debug"
	"testing"
)

type Benchmark = func(b *testing.B, i int)

// AddBenchmark runs benchmark as a sub-benchmark with the collector held off
// while the timer runs. Garbage is collected between iterations once the heap
// outgrows what the previous GC percentage would have allowed.
func AddBenchmark(b *testing.B, name string, benchmark Benchmark) {
	b.Run(name, func(b *testing.B) {
		b.StopTimer()
		prev_gc_pct := debug.SetGCPercent(-1)
		defer debug.SetGCPercent(prev_gc_pct)
		var heap_limit uint64
		for i := 0; i < b.N; i++ {
			if prev_gc_pct > 0 {
				heap_limit = collect_if_above(heap_limit, uint64(prev_gc_pct))
			}
			b.StartTimer()
			benchmark(b, i)
			b.StopTimer()
		}
	})
}

func collect_if_above(heap_limit, gc_pct uint64) uint64 {
	var mem_stats runtime.MemStats
	runtime.ReadMemStats(&mem_stats)
	if heap_limit != 0 && mem_stats.HeapAlloc <= heap_limit {
		return heap_limit
	}
	if heap_limit != 0 {
		runtime.GC()
		runtime.ReadMemStats(&mem_stats)
	}
	return mem_stats.HeapAlloc * gc_pct / 100
}
