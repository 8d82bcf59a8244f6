package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rshade/ghg-footprint/internal/catalog"
	"github.com/rshade/ghg-footprint/internal/factorsvc"
	"github.com/rshade/ghg-footprint/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// maxLatency bounds a single offline run.
	maxLatency = 100 * time.Millisecond

	numGoroutines = 100
	numIterations = 5
)

func BenchmarkRun_Offline(b *testing.B) {
	cat, err := catalog.Default()
	require.NoError(b, err)
	e := New(cat)
	p := profile.Example()
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Run(ctx, p); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRun_ServiceFallback(b *testing.B) {
	cat, err := catalog.Default()
	require.NoError(b, err)
	e := New(cat, WithService(stubService{err: factorsvc.ErrServiceUnavailable}))
	p := profile.Example()
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Run(ctx, p); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCatalogDefault(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := catalog.Default(); err != nil {
			b.Fatal(err)
		}
	}
}

func TestLatencyRequirement_OfflineRun(t *testing.T) {
	e := newEngine(t)

	start := time.Now()
	_, err := e.Run(context.Background(), profile.Example())
	elapsed := time.Since(start)

	require.NoError(t, err)
	if elapsed > maxLatency {
		t.Errorf("offline run took %v, exceeds %v limit", elapsed, maxLatency)
	}
}

// TestConcurrentAccess_Run shares one engine across goroutines and checks
// every run agrees.
func TestConcurrentAccess_Run(t *testing.T) {
	e := newEngine(t, WithService(stubService{tonnes: 1}))
	p := profile.Example()

	var wg sync.WaitGroup
	errs := make(chan error, numGoroutines*numIterations)
	totals := make(chan float64, numGoroutines*numIterations)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numIterations; j++ {
				report, err := e.Run(context.Background(), p)
				if err != nil {
					errs <- err
					return
				}
				totals <- report.Footprint.Totals.TotalLocation
			}
		}()
	}

	wg.Wait()
	close(errs)
	close(totals)

	for err := range errs {
		t.Error(err)
	}

	want, err := e.Run(context.Background(), p)
	require.NoError(t, err)
	count := 0
	for total := range totals {
		assert.Equal(t, want.Footprint.Totals.TotalLocation, total)
		count++
	}
	assert.Equal(t, numGoroutines*numIterations, count)
}
