package snapshot

import (
	"encoding/gob"
	"os"

	"rcuengine/domain/orderbook"
)

// Load rebuilds an OrderBook from the snapshot at path, returning the
// sequence it was taken at. A missing file is not an error: snapshots are
// an optional acceleration over full WAL replay.
//
// Snapshot entries are already-resting orders, so they are restored
// directly into their price levels rather than run back through Place,
// which would try to match them against each other a second time.
func Load(path string) (*orderbook.OrderBook, uint64, error) {
	book := orderbook.NewOrderBook()

	f, err := os.Open(path)
	if err != nil {
		return book, 0, nil
	}
	defer f.Close()

	var s Snapshot
	if err := gob.NewDecoder(f).Decode(&s); err != nil {
		return nil, 0, err
	}

	for _, e := range s.Orders {
		o := &orderbook.Order{
			ID:     e.ID,
			Side:   orderbook.Side(e.Side),
			Type:   orderbook.OrderType(e.Type),
			Price:  e.Price,
			Qty:    e.Qty,
			SeqID:  s.Seq,
			Status: orderbook.Active,
		}
		if o.Side == orderbook.Bid {
			book.Bids.GetOrCreate(o.Price).Enqueue(o)
		} else {
			book.Asks.GetOrCreate(o.Price).Enqueue(o)
		}
	}

	book.LastSeq.Store(s.Seq)

	return book, s.Seq, nil
}
