// Package benchmarks provides performance benchmarks for navigation throughput.
package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/comalice/bootnav"
	"github.com/comalice/bootnav/internal/primitives"
)

func BenchmarkNavigate(b *testing.B) {
	for _, n := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("routes_%d", n), func(b *testing.B) {
			r := NewRouter(b, GenRoutes(n))
			ctx := context.Background()
			path := fmt.Sprintf("/section%d/42", n-1)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := r.Navigate(ctx, path); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkPreActivationHook(b *testing.B) {
	r := NewRouter(b, GenRoutes(1))
	gate := primitives.FiredSignal()
	r.SetPreActivationHook(func(context.Context) (<-chan struct{}, error) {
		return gate.Done(), nil
	})
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Navigate(ctx, "/section0/1"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBoot(b *testing.B) {
	for _, p := range bootnav.Policies() {
		if p == bootnav.PolicyDisabled {
			continue
		}
		b.Run(string(p), func(b *testing.B) {
			ctx := context.Background()
			for i := 0; i < b.N; i++ {
				if err := Boot(ctx, p); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
