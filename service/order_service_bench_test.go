package service

import (
	"context"
	"testing"
	"time"

	"rcuengine/domain/orderbook"
	"rcuengine/infra/sequence"
	entrywal "rcuengine/infra/wal/entry"
	exitwal "rcuengine/infra/wal/exit"
	"rcuengine/rcu"
)

func BenchmarkPlaceOrder_Core(b *testing.B) {
	book := orderbook.NewOrderBook()
	engine := rcu.New[*orderbook.OrderBook](book, nil, rcu.Config{ReclaimInterval: time.Millisecond})
	defer engine.Close(context.Background())

	seq := sequence.New(0)

	entryWAL, err := entrywal.Open(entrywal.Config{
		Dir:         b.TempDir(),
		SegmentSize: 64 << 20,
	})
	if err != nil {
		b.Fatal(err)
	}
	exitWAL, err := exitwal.Open(b.TempDir())
	if err != nil {
		b.Fatal(err)
	}
	defer exitWAL.Close()

	svc := NewOrderService(engine, seq, entryWAL, exitWAL)

	ctx := context.Background()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			for {
				_, err := svc.PlaceOrder(ctx, orderbook.Bid, orderbook.Limit, 100, 1, 1)
				if err == nil {
					break
				}
				if err == rcu.ErrQueueFull {
					continue
				}
				b.Fatal(err)
			}
		}
	})
}
