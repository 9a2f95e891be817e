// Package benchmarks provides memory benchmarks for the synchronization
// primitives.
package benchmarks

import (
	"context"
	"sync"
	"testing"

	"github.com/comalice/bootnav/internal/primitives"
)

func BenchmarkSignalFire(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s := primitives.NewSignal()
		s.Fire()
		<-s.Done()
	}
}

func BenchmarkSignalFanOut(b *testing.B) {
	const waiters = 64
	b.ReportAllocs()
	ctx := context.Background()
	for i := 0; i < b.N; i++ {
		s := primitives.NewSignal()
		var wg sync.WaitGroup
		wg.Add(waiters)
		for w := 0; w < waiters; w++ {
			go func() {
				defer wg.Done()
				_ = s.Wait(ctx)
			}()
		}
		s.Fire()
		wg.Wait()
	}
}

func BenchmarkContextSnapshot(b *testing.B) {
	c := primitives.NewContext()
	for _, k := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		c.Set(k, k)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = primitives.NewContextFrom(c.Snapshot())
	}
}
