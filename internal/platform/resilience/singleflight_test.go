package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentCalls(t *testing.T) {
	var g SingleFlight
	var executions atomic.Int32

	const workers = 24
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	shared := atomic.Int32{}
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err, wasShared := g.Do("fixtures:2025:7", func() (any, error) {
				executions.Add(1)
				time.Sleep(15 * time.Millisecond)
				return "payload", nil
			})
			if err != nil {
				t.Errorf("Do failed: %v", err)
				return
			}
			if got, _ := v.(string); got != "payload" {
				t.Errorf("unexpected value: %v", v)
			}
			if wasShared {
				shared.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Fatalf("function ran %d times, want 1", got)
	}
	if got := shared.Load(); got != workers-1 {
		t.Fatalf("shared results: got=%d want=%d", got, workers-1)
	}
}

func TestSingleFlight_DistinctKeysRunIndependently(t *testing.T) {
	var g SingleFlight
	var executions atomic.Int32

	var wg sync.WaitGroup
	for _, key := range []string{"lines:9001", "lines:9002", "lines:9003"} {
		key := key
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err, _ := g.Do(key, func() (any, error) {
				executions.Add(1)
				return key, nil
			}); err != nil {
				t.Errorf("Do failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := executions.Load(); got != 3 {
		t.Fatalf("function ran %d times, want 3", got)
	}
}
