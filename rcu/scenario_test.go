package rcu

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// These mirror the six concrete end-to-end scenarios used to seed this
// package's test suite: init+single read, a single update propagating, a
// batch of updates, concurrent readers, a reader/writer race, and a
// larger stress run.

func TestScenarioInitAndSingleRead(t *testing.T) {
	var destroyedCount atomic.Int32
	var lastDestroyed int

	e := New(portConfig{port: 8080}, func(c portConfig) {
		destroyedCount.Add(1)
		lastDestroyed = c.port
	}, Config{})

	g, err := e.Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Value().port != 8080 {
		t.Fatalf("expected port 8080, got %d", g.Value().port)
	}
	g.Release()

	if err := e.Close(context.Background()); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	if destroyedCount.Load() != 1 {
		t.Fatalf("expected destructor called exactly once, got %d", destroyedCount.Load())
	}
	if lastDestroyed != 8080 {
		t.Fatalf("expected destructor called on the initial value, got %d", lastDestroyed)
	}
}

func TestScenarioSingleUpdatePropagates(t *testing.T) {
	var mu sync.Mutex
	var destroyed []int

	e := New(portConfig{port: 8080}, func(c portConfig) {
		mu.Lock()
		destroyed = append(destroyed, c.port)
		mu.Unlock()
	}, Config{ReclaimInterval: 5 * time.Millisecond})

	if err := e.Update(context.Background(), func(c portConfig) (portConfig, error) {
		c.port = 9090
		return c, nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	waitFor(t, func() bool {
		g, _ := e.Read(context.Background())
		defer g.Release()
		return g.Value().port == 9090
	})

	if err := e.Close(context.Background()); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(destroyed) != 2 {
		t.Fatalf("expected both values destroyed exactly once each, got %v", destroyed)
	}
}

func TestScenarioBatchOfTenUpdates(t *testing.T) {
	var destroyedCount atomic.Int32

	e := New(portConfig{port: 8000}, func(portConfig) {
		destroyedCount.Add(1)
	}, Config{ReclaimInterval: 5 * time.Millisecond})
	defer e.Close(context.Background())

	for i := 0; i < 10; i++ {
		if err := e.Update(context.Background(), func(c portConfig) (portConfig, error) {
			c.port++
			return c, nil
		}); err != nil {
			t.Fatalf("update %d failed: %v", i, err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	waitFor(t, func() bool {
		g, _ := e.Read(context.Background())
		defer g.Release()
		return g.Value().port == 8010
	})

	if err := e.Close(context.Background()); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	waitFor(t, func() bool { return destroyedCount.Load() == 11 })
}

func TestScenarioConcurrentReaders(t *testing.T) {
	e := New(portConfig{port: 1}, nil, Config{})
	defer e.Close(context.Background())

	var totalReads atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := e.Register()
			for j := 0; j < 1000; j++ {
				g, err := e.ReadWith(p)
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				_ = g.Value()
				g.Release()
				totalReads.Add(1)
			}
		}()
	}
	wg.Wait()

	if totalReads.Load() != 4000 {
		t.Fatalf("expected 4000 recorded reads, got %d", totalReads.Load())
	}
}

func TestScenarioReaderWriterRace(t *testing.T) {
	e := New(portConfig{port: 0}, nil, Config{ReclaimInterval: 2 * time.Millisecond})
	defer e.Close(context.Background())

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		p := e.Register()
		for i := 0; i < 500; i++ {
			g, err := e.ReadWith(p)
			if err != nil {
				return
			}
			_ = g.Value()
			g.Release()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			for {
				err := e.Update(context.Background(), func(c portConfig) (portConfig, error) {
					c.port++
					return c, nil
				})
				if err == nil {
					break
				}
				if err == ErrQueueFull {
					time.Sleep(time.Millisecond)
					continue
				}
				return
			}
		}
	}()

	wg.Wait()

	waitFor(t, func() bool {
		g, _ := e.Read(context.Background())
		defer g.Release()
		return g.Value().port == 100
	})
}

func TestScenarioStress(t *testing.T) {
	e := New(portConfig{port: 0}, nil, Config{ReclaimInterval: 2 * time.Millisecond, MaxRetiredPerEpoch: 1024})
	defer e.Close(context.Background())

	var wg sync.WaitGroup
	for r := 0; r < 8; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := e.Register()
			for i := 0; i < 500; i++ {
				g, err := e.ReadWith(p)
				if err != nil {
					return
				}
				_ = g.Value()
				g.Release()
			}
		}()
	}
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				for {
					err := e.Update(context.Background(), func(c portConfig) (portConfig, error) {
						c.port++
						return c, nil
					})
					if err == nil {
						break
					}
					if err == ErrQueueFull {
						time.Sleep(time.Millisecond)
						continue
					}
					return
				}
			}
		}()
	}
	wg.Wait()

	time.Sleep(500 * time.Millisecond)

	g, err := e.Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer g.Release()
	if g.Value().port != 400 {
		t.Fatalf("expected port 400, got %d", g.Value().port)
	}
}
